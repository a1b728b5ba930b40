// Package errs holds the error taxonomy shared by the catalog, the access
// engine and the share manager. Callers match kinds with errors.Is.
package errs

import "errors"

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindNotOwner        Kind = "not_owner"
	KindAccessDenied    Kind = "access_denied"
	KindValidation      Kind = "validation"
	KindInvalidDuration Kind = "invalid_duration"
	KindCorruptedRecord Kind = "corrupted_record"
)

type Error struct {
	Kind Kind
	// Entity names the missing or guarded record, e.g. "file" or "user".
	Entity string
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

// Is matches any *Error of the same kind, so a detailed error built with New
// still satisfies errors.Is(err, ErrNotFound). A target naming an entity
// only matches errors about that entity.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Entity != "" && t.Entity != e.Entity {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

var (
	ErrNotFound        = New(KindNotFound, "not found")
	ErrNotOwner        = New(KindNotOwner, "not owner")
	ErrAccessDenied    = New(KindAccessDenied, "access denied")
	ErrValidation      = New(KindValidation, "validation failed")
	ErrInvalidDuration = New(KindInvalidDuration, "expiresInHours must be at least 1")
	ErrCorruptedRecord = New(KindCorruptedRecord, "file data corrupted")

	ErrFileNotFound = &Error{Kind: KindNotFound, Entity: "file", Msg: "file not found"}
	ErrUserNotFound = &Error{Kind: KindNotFound, Entity: "user", Msg: "user not found"}
)

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// EntityOf returns the entity of the first *Error in err's chain, or "".
func EntityOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Entity
	}
	return ""
}
