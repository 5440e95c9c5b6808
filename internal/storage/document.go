package storage

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"go-hrm/internal/shared/apperror"
)

const (
	KindPhoto   = "photo"
	KindCV      = "cv"
	KindIDProof = "id_proof"
)

type rule struct {
	label      string
	extensions map[string]string
}

var rules = map[string]rule{
	KindPhoto: {
		label: "Photo must be a JPEG, PNG, WebP or GIF image",
		extensions: map[string]string{
			".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png",
			".webp": "image/webp", ".gif": "image/gif",
		},
	},
	KindCV: {
		label: "CV must be a PDF or Word document",
		extensions: map[string]string{
			".pdf":  "application/pdf",
			".doc":  "application/msword",
			".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	},
	KindIDProof: {
		label: "ID proof must be a PDF, JPEG or PNG file",
		extensions: map[string]string{
			".pdf": "application/pdf", ".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png",
		},
	},
}

// sniffed content types that are acceptable for a declared extension
var sniffAliases = map[string][]string{
	"application/msword": {"application/octet-stream", "application/x-ole-storage"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {"application/zip"},
}

// Document is a validated upload ready to be stored.
type Document struct {
	Kind        string
	File        *multipart.FileHeader
	Extension   string
	ContentType string
}

// ObjectKey is the storage key for a document of an employee.
func (d Document) ObjectKey(employeeCode string) string {
	return path.Join("onboarding", employeeCode, d.Kind+d.Extension)
}

// ValidateDocument checks extension, size and sniffed content of an upload.
func ValidateDocument(kind string, fh *multipart.FileHeader, maxBytes int64) (Document, error) {
	r, ok := rules[kind]
	if !ok {
		return Document{}, fmt.Errorf("unknown document kind %q", kind)
	}

	if fh.Size > maxBytes {
		return Document{}, apperror.New(
			apperror.CodeTooLarge,
			fmt.Sprintf("%s exceeds the %d MB upload limit", kind, maxBytes>>20),
			http.StatusRequestEntityTooLarge,
		)
	}

	ext := strings.ToLower(path.Ext(fh.Filename))
	declared, ok := r.extensions[ext]
	if !ok {
		return Document{}, apperror.New(apperror.CodeValidation, r.label, http.StatusBadRequest)
	}

	sniffed, err := sniff(fh)
	if err != nil {
		return Document{}, err
	}
	if !contentMatches(declared, sniffed) {
		return Document{}, apperror.New(apperror.CodeValidation, r.label, http.StatusBadRequest)
	}

	return Document{Kind: kind, File: fh, Extension: ext, ContentType: declared}, nil
}

func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return strings.SplitN(http.DetectContentType(buf[:n]), ";", 2)[0], nil
}

func contentMatches(declared, sniffed string) bool {
	if declared == sniffed {
		return true
	}
	for _, alias := range sniffAliases[declared] {
		if alias == sniffed {
			return true
		}
	}
	return false
}
