package sniffer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name     string
		head     []byte
		fileName string
		want     MediaType
		wantErr  bool
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, "a.jpg", TypeJPEG, false},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0}, "a.png", TypePNG, false},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "a.webp", TypeWEBP, false},
		{"pdf", []byte("%PDF-1.7\n"), "aadhaar.pdf", TypePDF, false},
		{"doc", []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1, 0}, "form.doc", TypeDOC, false},
		{"docx", []byte("PK\x03\x04rest"), "form.DOCX", TypeDOCX, false},
		{"plain zip", []byte("PK\x03\x04rest"), "archive.zip", "", true},
		{"text", []byte("hello"), "a.txt", "", true},
		{"empty", nil, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHead(tt.head, tt.fileName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestResultAllowed(t *testing.T) {
	pdf := Result{Type: TypePDF}
	assert.True(t, pdf.Allowed(Documents))
	assert.False(t, pdf.Allowed(Images))
	assert.Equal(t, "jpg", Result{Type: TypeJPEG}.Extension())
}

func TestMimeTypeFromHTTP(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "", MimeTypeFromHTTP(h))
	h.Set("Content-Type", "image/png; charset=binary")
	assert.Equal(t, "image/png", MimeTypeFromHTTP(h))
}
