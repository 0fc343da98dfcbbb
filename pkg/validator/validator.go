package validator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 150
	minPasswordLength = 8
	maxPasswordLength = 128
	maxFileNameLen    = 255
	maxAltTextLen     = 255
	asciiControlStart = 32
	asciiDelete       = 127

	errUsernameEmptyFmt        = "username cannot be empty"
	errUsernameLengthFmt       = "username must be between %d and %d characters"
	errUsernameInvalidFmt      = "username may only contain letters, digits and . _ -"
	errPasswordMinLengthFmt    = "password must be at least %d characters"
	errPasswordMaxLengthFmt    = "password must not exceed %d characters"
	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNamePathSepFmt      = "file name cannot contain path separators"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
	errAltTextMaxLengthFmt     = "alt text must not exceed %d characters"
	errAltTextControlCharsFmt  = "alt text cannot contain control characters"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func Username(username string) error {
	if username == "" {
		return fmt.Errorf(errUsernameEmptyFmt)
	}

	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf(errUsernameLengthFmt, minUsernameLength, maxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf(errUsernameInvalidFmt)
	}

	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf(errFileNamePathSepFmt)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errFileNameControlCharsFmt)
		}
	}

	return nil
}

func AltText(alt string) error {
	if len(alt) > maxAltTextLen {
		return fmt.Errorf(errAltTextMaxLengthFmt, maxAltTextLen)
	}

	for _, char := range alt {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errAltTextControlCharsFmt)
		}
	}

	return nil
}
