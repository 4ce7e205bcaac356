package domain

import (
	"fmt"
	"mime"
)

// MediaType is the closed set of upload types the gateway accepts.
type MediaType string

const (
	MediaJPEG      MediaType = "image/jpeg"
	MediaPNG       MediaType = "image/png"
	MediaWEBP      MediaType = "image/webp"
	MediaPDF       MediaType = "application/pdf"
	MediaDOCX      MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaPlainText MediaType = "text/plain"
)

var allowedMediaTypes = map[MediaType]struct{}{
	MediaJPEG:      {},
	MediaPNG:       {},
	MediaWEBP:      {},
	MediaPDF:       {},
	MediaDOCX:      {},
	MediaPlainText: {},
}

// ParseMediaType normalizes a declared content type and checks it against the
// allow-list. Types outside the list are rejected before anything is stored.
func ParseMediaType(declared string) (MediaType, error) {
	parsed, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", WrapError(ErrUnsupportedMedia, "parse media type", err)
	}
	mt := MediaType(parsed)
	if _, ok := allowedMediaTypes[mt]; !ok {
		return "", WrapError(ErrUnsupportedMedia, "parse media type", fmt.Errorf("%q is not accepted", parsed))
	}
	return mt, nil
}

func (m MediaType) IsImage() bool {
	switch m {
	case MediaJPEG, MediaPNG, MediaWEBP:
		return true
	default:
		return false
	}
}
