package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

const (
	storedNameByteLength      = 16
	errGenerateRandomBytesFmt = "failed to generate random bytes: %w"
	errLengthPositiveFmt      = "length must be positive"
	errByteLengthPositiveFmt  = "byteLength must be positive"
)

func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf(errLengthPositiveFmt)
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf(errGenerateRandomBytesFmt, err)
	}

	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

func GenerateHex(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf(errByteLengthPositiveFmt)
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf(errGenerateRandomBytesFmt, err)
	}

	return hex.EncodeToString(bytes), nil
}

// GenerateStoredName returns an unpredictable name for an uploaded file,
// preserving the extension of the original filename. Stored names never
// derive from user input beyond the extension.
func GenerateStoredName(originalName string) (string, error) {
	id, err := GenerateHex(storedNameByteLength)
	if err != nil {
		return "", err
	}
	return id + filepath.Ext(originalName), nil
}
