package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Engine validates and sanitizes task and user payloads.
// It holds no record state; the clock is the only input besides the payload.
type Engine struct {
	now      func() time.Time
	validate *validator.Validate
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for date rules.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine with the custom user validators registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	registerUserValidators(e.validate)
	return e
}

// oneOf checks membership with validator's oneof tag.
func (e *Engine) oneOf(msg string, values ...string) step {
	tag := "oneof=" + strings.Join(values, " ")
	return func(v string) (string, error) {
		if err := e.validate.Var(v, tag); err != nil {
			return "", errors.New(msg)
		}
		return v, nil
	}
}

// ParseID validates a record identifier and returns it in canonical
// lowercase form.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}
