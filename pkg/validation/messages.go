package validation

import "github.com/Aidin1998/publications/pkg/errors"

// Described is implemented by request bodies that can describe their shape
type Described interface {
	ExpectedFormat() string
}

// MissingProperty is the 422 returned for the first absent or falsy field
func MissingProperty(d Described, field, tag, reason string) error {
	return errors.Unprocessable.
		Explain("Expected format: %s. You're missing a %q property.", d.ExpectedFormat(), field).
		WithField(tag, field, reason)
}

// WrongType is the 422 returned for a field sent with a value of the wrong type
func WrongType(d Described, te *TypeError) error {
	return errors.Unprocessable.
		Explain("Expected format: %s. The %q property must be of type <%s>.", d.ExpectedFormat(), te.Field, te.Expected).
		WithField("type", te.Field, te.Error()).
		Wrap(te)
}
