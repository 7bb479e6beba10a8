package identity

import (
	"errors"
	"regexp"
	"strings"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@+-]+$`)

// Reserved names that can never be registered. Compared case-insensitively.
var bannedUsernames = []string{"me"}

var (
	ErrUsernameBanned  = errors.New("username is reserved")
	ErrUsernameInvalid = errors.New("username may only contain letters, digits and @/./+/-/_")
	ErrUsernameTooLong = errors.New("username must be at most 150 characters")
	ErrEmailTooLong    = errors.New("email must be at most 254 characters")
	ErrEmailInvalid    = errors.New("email address is invalid")
)

func ValidateUsername(username string) error {
	if username == "" || len(username) > MaxUsernameLength {
		if username == "" {
			return ErrUsernameInvalid
		}
		return ErrUsernameTooLong
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	for _, banned := range bannedUsernames {
		if strings.EqualFold(username, banned) {
			return ErrUsernameBanned
		}
	}
	return nil
}

func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return ErrEmailInvalid
	}
	return nil
}
