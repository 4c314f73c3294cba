package leads

import "errors"

var (
	// ErrInvalidName is returned when the name is missing or shorter than two characters
	ErrInvalidName = errors.New("leads: invalid name")

	// ErrInvalidEmail is returned when the email does not look like local@domain.tld
	ErrInvalidEmail = errors.New("leads: invalid email")

	// ErrInvalidPhone is returned when the phone has too few or too many digits
	ErrInvalidPhone = errors.New("leads: invalid phone")
)

// Copy shown to visitors on the landing pages.
const (
	msgInvalidName      = "Nome inválido"
	msgInvalidEmail     = "E-mail inválido"
	msgInvalidPhone     = "Telefone inválido"
	msgAccepted         = "Lead registrado com sucesso"
	msgInternalError    = "Erro interno do servidor"
	msgMethodNotAllowed = "Method not allowed"
)

// UserMessage maps a validation error to the message returned to the form.
// Any other error yields the generic internal error message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidName):
		return msgInvalidName
	case errors.Is(err, ErrInvalidEmail):
		return msgInvalidEmail
	case errors.Is(err, ErrInvalidPhone):
		return msgInvalidPhone
	default:
		return msgInternalError
	}
}

// IsValidationError reports whether err is one of the field validation errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrInvalidPhone)
}
