package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	webpHeader = append([]byte("RIFF\x24\x00\x00\x00"), []byte("WEBP")...)
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mime     string
		data     []byte
		wantExt  string
		wantErr  bool
	}{
		{name: "valid jpeg", filename: "photo.jpg", mime: "image/jpeg", data: jpegHeader, wantExt: ".jpg"},
		{name: "valid png", filename: "photo.png", mime: "image/png", data: pngHeader, wantExt: ".png"},
		{name: "valid gif", filename: "anim.gif", mime: "image/gif", data: []byte("GIF89a..."), wantExt: ".gif"},
		{name: "valid webp", filename: "photo.webp", mime: "image/webp", data: webpHeader, wantExt: ".webp"},
		{name: "jpg extension with png bytes", filename: "fake.jpg", mime: "image/jpeg", data: pngHeader, wantErr: true},
		{name: "jpg extension with png bytes and no declared mime", filename: "fake.jpg", mime: "", data: pngHeader, wantErr: true},
		{name: "mime disagrees with extension", filename: "photo.jpg", mime: "image/png", data: jpegHeader, wantErr: true},
		{name: "unsupported extension", filename: "doc.pdf", mime: "application/pdf", data: []byte("%PDF-1.4"), wantErr: true},
		{name: "no extension", filename: "photo", mime: "image/jpeg", data: jpegHeader, wantErr: true},
		{name: "riff without webp marker", filename: "photo.webp", mime: "image/webp", data: []byte("RIFF\x24\x00\x00\x00WAVE"), wantErr: true},
		{name: "truncated file", filename: "photo.png", mime: "image/png", data: []byte{0x89}, wantErr: true},
		{name: "mime with charset suffix", filename: "photo.jpg", mime: "image/jpeg; charset=binary", data: jpegHeader, wantExt: ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := validateImageFile(tt.filename, tt.mime, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "__evil_name.jpg", sanitizeFilename(`..\..\evil name.jpg`))
	assert.Equal(t, "photo.jpg", sanitizeFilename("photo.jpg"))
	assert.Equal(t, "we_ird_.png", sanitizeFilename("we%ird$.png"))
}
