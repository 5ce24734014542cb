package multisig

import (
	"github.com/pkg/errors"
)

// Code distinguishes failures a caller may want to react to.
type Code string

const (
	// CodeValidation marks malformed input.
	CodeValidation Code = "validation"
	// CodeDuplicateAccountName marks a name collision. Callers can ask for
	// another name and retry.
	CodeDuplicateAccountName Code = "duplicate-account-name"
	// CodeAccountNotFound marks an unknown account or missing default.
	CodeAccountNotFound Code = "account-not-found"
	// CodeNotMultisigSigner marks an account without signing material.
	CodeNotMultisigSigner Code = "not-multisig-signer"
	// CodeInternal marks everything else.
	CodeInternal Code = "internal"
)

// Error is returned by every Service operation.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, err error) error {
	return &Error{Code: code, Err: err}
}

func validation(err error, msg string) error {
	return newError(CodeValidation, errors.Wrap(err, msg))
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsDuplicateName reports whether err is a name collision.
func IsDuplicateName(err error) bool {
	return CodeOf(err) == CodeDuplicateAccountName
}
