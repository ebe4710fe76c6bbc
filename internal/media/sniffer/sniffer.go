package sniffer

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeWEBP MediaType = "webp"
	TypePDF  MediaType = "pdf"
	TypeDOC  MediaType = "doc"
	TypeDOCX MediaType = "docx"
)

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
}

func (r Result) Extension() string {
	if r.Type == TypeJPEG {
		return "jpg"
	}
	return string(r.Type)
}

// Images are accepted for service and offer artwork.
var Images = []MediaType{TypeJPEG, TypePNG, TypeWEBP}

// Documents are accepted for customer uploads.
var Documents = []MediaType{TypeJPEG, TypePNG, TypePDF, TypeDOC, TypeDOCX}

// DetectHead identifies the file from its first bytes. fileName is only
// consulted to tell a .docx from any other zip container.
func DetectHead(head []byte, fileName string) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	switch {
	case isJPEG(head):
		return Result{Type: TypeJPEG, MIME: "image/jpeg"}, nil
	case isPNG(head):
		return Result{Type: TypePNG, MIME: "image/png"}, nil
	case isWEBP(head):
		return Result{Type: TypeWEBP, MIME: "image/webp"}, nil
	case isPDF(head):
		return Result{Type: TypePDF, MIME: "application/pdf"}, nil
	case isOLE(head):
		return Result{Type: TypeDOC, MIME: "application/msword"}, nil
	case isZip(head) && strings.EqualFold(filepath.Ext(fileName), ".docx"):
		return Result{Type: TypeDOCX, MIME: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, nil
	}

	return Result{}, ErrUnknownType
}

// Allowed reports whether the detected type is one of allowed.
func (r Result) Allowed(allowed []MediaType) bool {
	for _, t := range allowed {
		if r.Type == t {
			return true
		}
	}
	return false
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

func isPDF(head []byte) bool {
	return bytes.HasPrefix(head, []byte("%PDF-"))
}

func isOLE(head []byte) bool {
	return bytes.HasPrefix(head, []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1})
}

func isZip(head []byte) bool {
	return bytes.HasPrefix(head, []byte{'P', 'K', 0x03, 0x04})
}

func MimeTypeFromHTTP(header http.Header) string {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		return strings.TrimSpace(contentType[:idx])
	}
	return strings.TrimSpace(contentType)
}
