package usecase

import (
	"net/mail"
	"strings"
)

// ValidateEmail checks that the address parses as a bare RFC 5322 address
// with a dotted domain.
func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	return strings.Contains(domain, ".")
}
