package leads

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// DefaultCountryCode is the home-market dial code assumed when the form omits one.
const DefaultCountryCode = "+55"

const (
	minNameLength       = 2
	minPhoneDigits      = 7
	minLocalPhoneDigits = 10
	maxPhoneDigits      = 15
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// IsValidEmail reports whether email has the basic local@domain.tld shape.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPhone checks the digit count of phone, requiring at least ten digits
// for the home-market country code.
func IsValidPhone(phone, countryCode string) bool {
	return isValidPhone(phone, countryCode, DefaultCountryCode)
}

func isValidPhone(phone, countryCode, localCountryCode string) bool {
	digits := len(onlyDigits(phone))
	minDigits := minPhoneDigits
	if strings.TrimSpace(countryCode) == strings.TrimSpace(localCountryCode) {
		minDigits = minLocalPhoneDigits
	}
	return digits >= minDigits && digits <= maxPhoneDigits
}

func isValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= minNameLength
}

func onlyDigits(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// Validator checks submissions before any processing happens.
type Validator struct {
	v                  *validator.Validate
	defaultCountryCode string
}

// NewValidator builds a validator. An empty defaultCountryCode falls back to DefaultCountryCode.
func NewValidator(defaultCountryCode string) *Validator {
	val := &Validator{v: validator.New(), defaultCountryCode: EffectiveCountryCode("", defaultCountryCode)}

	// Registration only fails for empty tags or nil funcs.
	_ = val.v.RegisterValidation("leadname", func(fl validator.FieldLevel) bool {
		return isValidName(fl.Field().String())
	})
	_ = val.v.RegisterValidation("leademail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	val.v.RegisterStructValidation(val.validatePhone, Submission{})
	return val
}

// EffectiveCountryCode trims countryCode and falls back to defaultCountryCode,
// then to DefaultCountryCode, when it is blank.
func EffectiveCountryCode(countryCode, defaultCountryCode string) string {
	if cc := strings.TrimSpace(countryCode); cc != "" {
		return cc
	}
	if cc := strings.TrimSpace(defaultCountryCode); cc != "" {
		return cc
	}
	return DefaultCountryCode
}

// CountryCode returns the effective dial code for a submission.
func (val *Validator) CountryCode(sub *Submission) string {
	return EffectiveCountryCode(sub.CountryCode, val.defaultCountryCode)
}

func (val *Validator) validatePhone(sl validator.StructLevel) {
	sub := sl.Current().Interface().(Submission)
	if !isValidPhone(sub.Phone, val.CountryCode(&sub), val.defaultCountryCode) {
		sl.ReportError(sub.Phone, "phone", "Phone", "leadphone", "")
	}
}

// Validate returns ErrInvalidName, ErrInvalidEmail or ErrInvalidPhone for the
// first failing field, in that order, or nil when the submission is acceptable.
func (val *Validator) Validate(sub *Submission) error {
	if sub == nil {
		return ErrInvalidName
	}
	err := val.v.Struct(sub)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.StructField()] = true
	}
	switch {
	case failed["Name"]:
		return ErrInvalidName
	case failed["Email"]:
		return ErrInvalidEmail
	case failed["Phone"]:
		return ErrInvalidPhone
	}
	return err
}
