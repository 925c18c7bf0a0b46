// Package validators contains input checks shared by the HTTP handlers and
// the services
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

// EmailValidator accepts a bare address such as bob@example.com. Display
// names ("Bob <bob@example.com>") are rejected.
func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != strings.TrimSpace(e) {
		return ErrEmailInvalid
	}

	return nil
}
