package contact

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/akeren/portfolio-api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// The whitespace class matches what browsers treat as \s in form validation.
var contactEmailPattern = regexp.MustCompile(`^[^\t\n\v\f\r\p{Z}\x{FEFF}@]+@[^\t\n\v\f\r\p{Z}\x{FEFF}@]+\.[^\t\n\v\f\r\p{Z}\x{FEFF}@]+$`)

type validationPass struct {
	validate *validator.Validate
	cause    error
	message  string
}

// ContactValidator runs presence, format and length checks in that order and stops
// at the first pass that fails.
type ContactValidator struct {
	passes []validationPass
	lower  cases.Caser
}

func NewContactValidator() *ContactValidator {
	presence := validator.New()
	presence.SetTagName("presence")

	format := validator.New()
	format.SetTagName("format")
	if err := format.RegisterValidation("contact_email", isContactEmail); err != nil {
		panic(err)
	}

	length := validator.New()
	length.SetTagName("length")

	return &ContactValidator{
		passes: []validationPass{
			{validate: presence, cause: ErrMissingField, message: MessageAllFieldsRequired},
			{validate: format, cause: ErrInvalidEmail, message: MessageInvalidEmail},
			{validate: length, cause: ErrFieldTooLong, message: MessageFieldTooLong},
		},
		lower: cases.Lower(language.Und),
	}
}

func isContactEmail(fl validator.FieldLevel) bool {
	return IsValidEmail(fl.Field().String())
}

// IsValidEmail reports whether s looks like local@domain.tld with no whitespace.
func IsValidEmail(s string) bool {
	return contactEmailPattern.MatchString(s)
}

// Validate checks the trimmed request and returns the normalized submission. The
// returned error is an INVALID_REQUEST AppError wrapping one of ErrMissingField,
// ErrInvalidEmail or ErrFieldTooLong.
func (v *ContactValidator) Validate(req *SubmitContactRequest) (*SubmitContactRequest, []apperrors.ValidationErrorResponse, error) {
	if req == nil {
		return nil, nil, apperrors.NewInvalidRequestError(MessageAllFieldsRequired, ErrMissingField)
	}

	trimmed := &SubmitContactRequest{
		Name:    trimFormSpace(req.Name),
		Email:   trimFormSpace(req.Email),
		Message: trimFormSpace(req.Message),
	}

	for _, pass := range v.passes {
		if err := pass.validate.Struct(trimmed); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return nil, nil, apperrors.NewInternalServerError(MessageInternalError, err)
			}
			return nil, apperrors.FormatValidationErrors(err, trimmed), apperrors.NewInvalidRequestError(pass.message, pass.cause)
		}
	}

	trimmed.Email = v.lower.String(trimmed.Email)
	return trimmed, nil, nil
}

func trimFormSpace(s string) string {
	return strings.TrimFunc(s, isFormSpace)
}

// isFormSpace is unicode.IsSpace without NEL (U+0085) and with the BOM (U+FEFF).
func isFormSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return r == '\uFEFF' || unicode.IsSpace(r)
}
