package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"runners_api/internal/metrics"
	"runners_api/internal/storage"
)

// Blob is the shared blob store handle, set at startup.
var Blob *storage.BlobStore

const (
	maxFilesPerRequest = 10
	uploadMaxSize      = 5 << 20 // 5MB on the general image endpoint
	signedURLTTL       = time.Hour
)

// imageSignature pairs the on-disk magic bytes with the extensions and MIME
// types allowed to declare them.
type imageSignature struct {
	magic      [][]byte
	extensions []string
	mimeTypes  []string
}

var imageSignatures = []imageSignature{
	{
		magic:      [][]byte{{0xFF, 0xD8, 0xFF}},
		extensions: []string{".jpg", ".jpeg"},
		mimeTypes:  []string{"image/jpeg"},
	},
	{
		magic:      [][]byte{{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
		extensions: []string{".png"},
		mimeTypes:  []string{"image/png"},
	},
	{
		magic:      [][]byte{[]byte("GIF87a"), []byte("GIF89a")},
		extensions: []string{".gif"},
		mimeTypes:  []string{"image/gif"},
	},
	{
		// RIFF....WEBP: bytes 0-3 and 8-11
		magic:      [][]byte{[]byte("RIFF")},
		extensions: []string{".webp"},
		mimeTypes:  []string{"image/webp"},
	},
}

// validateImageFile checks the extension, the declared MIME type, and the
// leading magic bytes against the signature table. All three must agree.
// Returns the normalized extension.
func validateImageFile(filename, declaredMIME string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(sanitizeFilename(filename)))
	if ext == "" {
		return "", errors.New("file has no extension")
	}

	var sig *imageSignature
	for i := range imageSignatures {
		for _, e := range imageSignatures[i].extensions {
			if e == ext {
				sig = &imageSignatures[i]
			}
		}
	}
	if sig == nil {
		return "", errors.New("unsupported file type " + ext)
	}

	if declaredMIME != "" {
		mimeOK := false
		base := strings.ToLower(strings.TrimSpace(strings.Split(declaredMIME, ";")[0]))
		for _, m := range sig.mimeTypes {
			if m == base {
				mimeOK = true
			}
		}
		if !mimeOK {
			return "", errors.New("declared content type " + declaredMIME + " does not match " + ext)
		}
	}

	magicOK := false
	for _, magic := range sig.magic {
		if len(data) >= len(magic) && bytes.Equal(data[:len(magic)], magic) {
			magicOK = true
		}
	}
	if magicOK && ext == ".webp" {
		// WebP needs the secondary marker past the RIFF chunk size.
		magicOK = len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP"))
	}
	if !magicOK {
		return "", errors.New("file content does not match " + ext + " signature")
	}

	return ext, nil
}

// sanitizeFilename strips path components and characters that are unsafe in
// storage keys. The result is only used for display; storage keys are random.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// UploadImages accepts up to ten image files, validates each against the
// signature table, and streams the survivors to blob storage. Per-file
// failures are reported without failing the batch.
func UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}
	if len(files) > maxFilesPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most 10 files per request"})
		return
	}

	uploaded := make([]gin.H, 0, len(files))
	failed := make([]gin.H, 0)
	for _, fh := range files {
		originalName := sanitizeFilename(fh.Filename)
		if fh.Size > uploadMaxSize {
			failed = append(failed, gin.H{"originalName": originalName, "error": "file exceeds the 5MB limit"})
			metrics.UploadsProcessed.WithLabelValues("rejected").Inc()
			continue
		}

		f, err := fh.Open()
		if err != nil {
			failed = append(failed, gin.H{"originalName": originalName, "error": "could not read file"})
			metrics.UploadsProcessed.WithLabelValues("error").Inc()
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			failed = append(failed, gin.H{"originalName": originalName, "error": "could not read file"})
			metrics.UploadsProcessed.WithLabelValues("error").Inc()
			continue
		}

		ext, err := validateImageFile(fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			failed = append(failed, gin.H{"originalName": originalName, "error": err.Error()})
			metrics.UploadsProcessed.WithLabelValues("rejected").Inc()
			continue
		}

		if Blob == nil {
			failed = append(failed, gin.H{"originalName": originalName, "error": "blob storage is not configured"})
			metrics.UploadsProcessed.WithLabelValues("error").Inc()
			continue
		}
		blobName := uuid.New().String() + ext
		url, err := Blob.Upload(c.Request.Context(), blobName, data)
		if err != nil {
			logrus.WithError(err).WithField("file", originalName).Error("UploadImages: blob upload failed")
			failed = append(failed, gin.H{"originalName": originalName, "error": "storage upload failed"})
			metrics.UploadsProcessed.WithLabelValues("error").Inc()
			continue
		}

		uploaded = append(uploaded, gin.H{
			"originalName": originalName,
			"fileName":     blobName,
			"url":          url,
			"size":         fh.Size,
		})
		metrics.UploadsProcessed.WithLabelValues("ok").Inc()
	}

	status := http.StatusOK
	if len(uploaded) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"uploaded": uploaded, "failed": failed})
}

// SignedURL mints a one-hour read-only SAS URL for a stored blob.
func SignedURL(c *gin.Context) {
	blobName := c.Query("blob")
	if blobName == "" || blobName != sanitizeFilename(blobName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blob query parameter is required"})
		return
	}
	if Blob == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "blob storage is not configured"})
		return
	}

	url, err := Blob.SignedReadURL(blobName, signedURLTTL)
	if err != nil {
		logrus.WithError(err).Error("SignedURL: signing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": int(signedURLTTL.Seconds())})
}
