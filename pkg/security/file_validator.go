package security

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNoExtension       = errors.New("file has no extension")
	ErrExtensionRejected = errors.New("file extension not allowed")
	ErrContentMismatch   = errors.New("file content does not match extension")
	ErrMIMERejected      = errors.New("file type not allowed")
	ErrEmptyFile         = errors.New("file is empty")
	ErrActiveContent     = errors.New("svg contains scripts or event handlers")
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Extension    string
	DetectedMIME string
	IsImage      bool
}

// Magic byte signatures for allowed file types
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {[]byte("GIF87a"), []byte("GIF89a")},
	".webp": {[]byte("RIFF")},
	".pdf":  {[]byte("%PDF")},
	".docx": {{0x50, 0x4B, 0x03, 0x04}},
	".svg":  {},
	".txt":  {},
}

// allowedMIME lists the sniffed types accepted per extension.
var allowedMIME = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".svg":  {"image/svg+xml"},
	".txt":  {"text/plain"},
}

// ValidateFile checks, in order, the extension whitelist, the magic bytes and
// the MIME type sniffed by mimetype. allowed narrows the whitelist; nil means
// every known extension.
func ValidateFile(filename string, data []byte, allowed []string) (*FileValidationResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, ErrNoExtension
	}
	if _, known := allowedMIME[ext]; !known || (allowed != nil && !contains(allowed, ext)) {
		return nil, ErrExtensionRejected
	}

	if !validateMagicBytes(ext, data) {
		return nil, ErrContentMismatch
	}

	detected := mimetype.Detect(data)
	if !mimeAllowed(detected, allowedMIME[ext]) {
		return nil, ErrMIMERejected
	}
	if ext == ".svg" && svgHasActiveContent(data) {
		return nil, ErrActiveContent
	}

	return &FileValidationResult{
		Extension:    ext,
		DetectedMIME: detected.String(),
		IsImage:      IsRasterImage(ext),
	}, nil
}

func validateMagicBytes(ext string, data []byte) bool {
	signatures := magicBytes[ext]
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// mimeAllowed walks the detected type's parents so e.g. text/plain subtypes pass.
func mimeAllowed(m *mimetype.MIME, allowed []string) bool {
	for ; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

// SVGs are served as-is, so anything a browser would execute is refused
// rather than stripped.
var svgActivePattern = regexp.MustCompile(`(?i)<\s*(script|foreignobject|iframe|embed|object)\b|\bon[a-z]+\s*=|javascript\s*:|<!entity|xlink:href\s*=\s*["']?\s*data:`)

func svgHasActiveContent(data []byte) bool {
	return svgActivePattern.Match(data)
}

// IsRasterImage reports whether the extension is re-encoded on upload.
func IsRasterImage(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename keeps an ASCII, storage-safe base name.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = unsafeFilenameChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		stem = "file"
	}
	if len(stem) > 64 {
		stem = stem[:64]
	}
	return stem + ext
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
