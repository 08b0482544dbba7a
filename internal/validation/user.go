package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/fentz26/taskkeep/internal/models"
)

// User payload field names.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
	FieldPhone    = "phone"
	FieldAddress  = "address"
)

// UserFields lists every field a user payload may carry.
var UserFields = []string{FieldName, FieldEmail, FieldPassword, FieldRole, FieldPhone, FieldAddress}

// userRule declares how one user field is sanitized and which validator
// tags it must satisfy.
type userRule struct {
	field    string
	required bool
	sanitize chain
	tag      string
}

var userRules = []userRule{
	{field: FieldName, required: true, sanitize: chain{trim}, tag: "min=2,max=100,alphaspace"},
	{field: FieldEmail, required: true, sanitize: chain{trim, lower}, tag: "email"},
	{field: FieldPassword, required: true, tag: "min=6,password"},
	{field: FieldRole, sanitize: chain{trim, lower}, tag: "oneof=admin user customer"},
	{field: FieldPhone, sanitize: chain{trim}, tag: "phone"},
	{field: FieldAddress, sanitize: chain{trim}, tag: "min=5,max=500"},
}

// userMessages maps validator tags to message templates. The first %s is
// the field label, the second (when present) the tag parameter.
var userMessages = map[string]string{
	"required":   "%s is required",
	"min":        "%s must be at least %s characters long",
	"max":        "%s must be no longer than %s characters",
	"email":      "%s must be a valid email address",
	"oneof":      "%s must be one of: %s",
	"alphaspace": "%s can only contain letters and spaces",
	"phone":      "%s must be a valid phone number with at least 10 digits",
	"password":   "%s must contain at least one uppercase letter, one lowercase letter, and one number",
}

var (
	alphaSpacePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phonePattern      = regexp.MustCompile(`^[+]?[\d\s\-()]+$`)
)

func registerUserValidators(v *validator.Validate) {
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpacePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !phonePattern.MatchString(s) {
			return false
		}
		digits := 0
		for _, r := range s {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		return digits >= 10
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var upper, lower, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && lower && digit
	})
}

// UserCreate validates a user registration payload.
func (e *Engine) UserCreate(raw map[string]any) (models.UserPatch, error) {
	return e.user(raw, modeCreate)
}

// UserUpdate validates a user update payload.
func (e *Engine) UserUpdate(raw map[string]any) (models.UserPatch, error) {
	return e.user(raw, modeUpdate)
}

func (e *Engine) user(raw map[string]any, m mode) (models.UserPatch, error) {
	errs := FieldErrors{}
	unknown := unexpectedFields(raw, UserFields)
	for _, name := range unknown {
		errs.add(name, "Unexpected field. Allowed fields are: "+strings.Join(UserFields, ", "))
	}
	if m == modeUpdate && len(unknown) == len(raw) {
		errs.add(BodyField, "At least one field must be provided for update. Allowed fields: "+strings.Join(UserFields, ", "))
	}

	values := make(map[string]string, len(userRules))
	for _, rule := range userRules {
		v, ok := raw[rule.field]
		if !ok {
			if rule.required && m == modeCreate {
				errs.add(rule.field, fmt.Sprintf(userMessages["required"], label(rule.field)))
			}
			continue
		}
		s, err := asString(rule.field, v)
		if err == nil {
			s, err = rule.sanitize.run(s)
		}
		if err == nil {
			err = e.checkTag(rule.field, s, rule.tag)
		}
		if err != nil {
			errs.add(rule.field, err.Error())
			continue
		}
		values[rule.field] = s
	}

	if err := errs.err(); err != nil {
		return models.UserPatch{}, err
	}

	var patch models.UserPatch
	for field, s := range values {
		switch field {
		case FieldName:
			patch.Name = &s
		case FieldEmail:
			patch.Email = &s
		case FieldPassword:
			patch.Password = &s
		case FieldRole:
			role := models.Role(s)
			patch.Role = &role
		case FieldPhone:
			patch.Phone = &s
		case FieldAddress:
			patch.Address = &s
		}
	}
	return patch, nil
}

// checkTag runs validator tags against s and renders the first failure.
func (e *Engine) checkTag(field, s, tag string) error {
	err := e.validate.Var(s, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return errors.New(userMessage(field, verrs[0]))
}

func userMessage(field string, fe validator.FieldError) string {
	msg, ok := userMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid: %s", label(field), fe.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		param := fe.Param()
		if fe.Tag() == "oneof" {
			param = strings.ReplaceAll(param, " ", ", ")
		}
		return fmt.Sprintf(msg, label(field), param)
	}
	return fmt.Sprintf(msg, label(field))
}

// label capitalizes a field name for messages.
func label(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
