package session

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode"
)

// MaxAvatarBytes caps uploaded profile pictures.
const MaxAvatarBytes = 5 * 1024 * 1024

var (
	ErrNotImage        = errors.New("please select a valid image file")
	ErrAvatarTooLarge  = errors.New("file size must be less than 5MB")
	ErrWeakPassword    = errors.New("password must be at least 8 characters with uppercase, lowercase, and number")
	ErrPasswordsDiffer = errors.New("new passwords do not match")
)

// SetAvatar stores an image as a data URL.
func (s *Store) SetAvatar(mimeType string, data []byte) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return ErrNotImage
	}
	if len(data) > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	return s.set(KeyAvatar, "data:"+mimeType+";base64,"+base64.StdEncoding.EncodeToString(data))
}

// ValidateNewPassword checks a password change request locally.
func ValidateNewPassword(newPassword, confirm string) error {
	if newPassword != confirm {
		return ErrPasswordsDiffer
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range newPassword {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}
