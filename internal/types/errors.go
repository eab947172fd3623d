package types

import "fmt"

// DocumentError indicates a résumé document that cannot be laid out at all,
// such as a section kind outside the closed enumeration.
type DocumentError struct {
	Field   string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	switch {
	case e.Field != "" && e.Cause != nil:
		return fmt.Sprintf("malformed document: %s: %s: %v", e.Field, e.Message, e.Cause)
	case e.Field != "":
		return fmt.Sprintf("malformed document: %s: %s", e.Field, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("malformed document: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("malformed document: %s", e.Message)
	}
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
