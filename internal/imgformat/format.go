package imgformat

import (
	"net/http"
	"path/filepath"
	"strings"
)

// Format is the enumerated content type of a stored image. Only the formats
// accepted at upload time appear here.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
)

const sniffLen = 512

func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// Detect sniffs the actual byte content of an upload and returns the image
// format. Filenames are never trusted; a GIF renamed to photo.jpg is
// rejected here.
func Detect(data []byte) (Format, bool) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	switch http.DetectContentType(head) {
	case "image/jpeg":
		return JPEG, true
	case "image/png":
		return PNG, true
	default:
		return "", false
	}
}

// FromFilename resolves the response format for a stored file from its
// extension. Stored filenames are produced by this service, so the suffix is
// authoritative; anything that is not PNG is served as JPEG.
func FromFilename(name string) Format {
	if strings.ToLower(filepath.Ext(name)) == ".png" {
		return PNG
	}
	return JPEG
}
