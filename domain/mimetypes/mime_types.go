package mimetypes

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const OctetStream MIME = "application/octet-stream"

// IsImage reports whether mediaType, parameters included, is an image type.
func IsImage(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	return err == nil && strings.HasPrefix(mt, "image/")
}

// Resolve returns the media type of an uploaded file.
// The declared type wins unless it is missing, unparsable or the generic octet-stream,
// in which case the content is sniffed.
func Resolve(declared string, data []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != string(OctetStream) {
			return mt
		}
	}
	detected := mimetype.Detect(data)
	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return string(OctetStream)
	}
	return mt
}
