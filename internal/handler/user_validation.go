package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// createUserRequest is the body of POST /users.
type createUserRequest struct {
	Name     string  `json:"name" validate:"required,person_name"`
	Email    string  `json:"email" validate:"required,max=255,basic_email"`
	Password *string `json:"password" validate:"omitempty,strong_password"`
}

// updateUserRequest is the body of PUT /users/{userId}. Only present
// fields are validated.
type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,person_name"`
	Email    *string `json:"email" validate:"omitempty,max=255,basic_email"`
	Password *string `json:"password" validate:"omitempty,strong_password"`
}

var fieldMessages = map[string]string{
	"person_name":     "name must be between 2 and 30 characters",
	"basic_email":     "email must be a valid email address",
	"strong_password": "password must be at least 8 characters and include an uppercase letter, a lowercase letter, a number and a special character",
}

// newValidator registers the user field rules and reports fields by their
// JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "person_name", func(fl validator.FieldLevel) bool {
		n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
		return n >= 2 && n <= 30
	})
	mustRegister(v, "basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "strong_password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

func strongPassword(p string) bool {
	if utf8.RuneCountInString(p) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// firstValidationError returns the message of the first failing field.
func firstValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "invalid request"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
