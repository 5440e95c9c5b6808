package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"go-hrm/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdfBytes  = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	webpBytes = []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, _ = part.Write(content)
	assert.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	assert.NoError(t, err)
	return form.File["file"][0]
}

func TestValidateDocument(t *testing.T) {
	t.Run("photo png", func(t *testing.T) {
		doc, err := ValidateDocument(KindPhoto, fileHeader(t, "Me.PNG", pngBytes), 1<<20)

		assert.NoError(t, err)
		assert.Equal(t, ".png", doc.Extension)
		assert.Equal(t, "image/png", doc.ContentType)
		assert.Equal(t, "onboarding/EMP0007/photo.png", doc.ObjectKey("EMP0007"))
	})

	t.Run("photo webp and gif", func(t *testing.T) {
		webp, err := ValidateDocument(KindPhoto, fileHeader(t, "me.webp", webpBytes), 1<<20)
		assert.NoError(t, err)
		assert.Equal(t, "image/webp", webp.ContentType)

		gif, err := ValidateDocument(KindPhoto, fileHeader(t, "me.gif", gifBytes), 1<<20)
		assert.NoError(t, err)
		assert.Equal(t, "onboarding/EMP0007/photo.gif", gif.ObjectKey("EMP0007"))
	})

	t.Run("cv pdf", func(t *testing.T) {
		doc, err := ValidateDocument(KindCV, fileHeader(t, "resume.pdf", pdfBytes), 1<<20)

		assert.NoError(t, err)
		assert.Equal(t, "onboarding/EMP0007/cv.pdf", doc.ObjectKey("EMP0007"))
	})

	t.Run("extension not allowed", func(t *testing.T) {
		_, err := ValidateDocument(KindPhoto, fileHeader(t, "me.bmp", []byte("BM\x00\x00")), 1<<20)

		assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(err).Status)
		assert.Equal(t, "Photo must be a JPEG, PNG, WebP or GIF image", apperror.ToHTTP(err).Message)
	})

	t.Run("content does not match extension", func(t *testing.T) {
		_, err := ValidateDocument(KindIDProof, fileHeader(t, "id.pdf", pngBytes), 1<<20)

		assert.Equal(t, "ID proof must be a PDF, JPEG or PNG file", apperror.ToHTTP(err).Message)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := ValidateDocument(KindCV, fileHeader(t, "resume.pdf", append(pdfBytes, make([]byte, 64)...)), 16)

		assert.Equal(t, http.StatusRequestEntityTooLarge, apperror.ToHTTP(err).Status)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ValidateDocument("payslip", fileHeader(t, "x.pdf", pdfBytes), 1<<20)

		assert.Error(t, err)
	})
}
