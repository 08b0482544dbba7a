package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// step is one stage of a field pipeline: it either returns the
// (possibly sanitized) value or fails with a user-facing message.
type step func(v string) (string, error)

// chain runs steps in order and stops at the first failure.
type chain []step

func (c chain) run(v string) (string, error) {
	var err error
	for _, s := range c {
		if v, err = s(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

// asString extracts a string from a decoded JSON value.
func asString(field string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errors.New(field + " must be a string")
	}
	return s, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func trim(v string) (string, error) {
	return strings.TrimSpace(v), nil
}

func lower(v string) (string, error) {
	return strings.ToLower(v), nil
}

func collapseSpaces(v string) (string, error) {
	return whitespaceRun.ReplaceAllString(v, " "), nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

func escapeHTML(v string) (string, error) {
	return htmlEscaper.Replace(v), nil
}

func notEmpty(msg string) step {
	return func(v string) (string, error) {
		if v == "" {
			return "", errors.New(msg)
		}
		return v, nil
	}
}

// length bounds the rune count; max <= 0 means unbounded.
func length(min, max int, msg string) step {
	return func(v string) (string, error) {
		n := utf8.RuneCountInString(v)
		if n < min || (max > 0 && n > max) {
			return "", errors.New(msg)
		}
		return v, nil
	}
}

func matches(re *regexp.Regexp, msg string) step {
	return func(v string) (string, error) {
		if !re.MatchString(v) {
			return "", errors.New(msg)
		}
		return v, nil
	}
}
