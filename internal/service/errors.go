package service

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindMissingField
	KindInvalidParent
	KindNotFound
	KindNoContent
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindMissingField:
		return "MissingField"
	case KindInvalidParent:
		return "InvalidParent"
	case KindNotFound:
		return "NotFound"
	case KindNoContent:
		return "NotAContentBearingRecord"
	case KindInvalidInput:
		return "InvalidInput"
	}

	return "Internal"
}

// Error is a failure with a stable kind and a message safe to show to clients
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}

	ErrMissingName     = &Error{Kind: KindMissingField, Message: "Missing name"}
	ErrMissingType     = &Error{Kind: KindMissingField, Message: "Missing type"}
	ErrMissingData     = &Error{Kind: KindMissingField, Message: "Missing data"}
	ErrMissingEmail    = &Error{Kind: KindMissingField, Message: "Missing email"}
	ErrMissingPassword = &Error{Kind: KindMissingField, Message: "Missing password"}

	ErrAlreadyExists = &Error{Kind: KindInvalidInput, Message: "Already exist"}
	ErrInvalidEmail  = &Error{Kind: KindInvalidInput, Message: "Invalid email"}

	ErrParentNotFound  = &Error{Kind: KindInvalidParent, Message: "Parent not found"}
	ErrParentNotFolder = &Error{Kind: KindInvalidParent, Message: "Parent is not a folder"}

	// ErrNotFound covers absent records, records of other users and denied reads alike
	ErrNotFound = &Error{Kind: KindNotFound, Message: "Not found"}

	ErrNoContent = &Error{Kind: KindNoContent, Message: "A folder doesn't have content"}
)

func internal(err error) error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// KindOf classifies err. Errors that aren't an *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Message returns the client facing text for err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return "Internal server error"
}
