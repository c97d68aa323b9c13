package webapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUpload is returned for a request that carries no usable audio
// file.
var ErrInvalidUpload = errors.New("invalid upload")

// UploadField is the multipart form field holding the recording.
const UploadField = "file"

// AllowedExtensions are the accepted recording formats, without the dot.
var AllowedExtensions = []string{"wav", "mp3", "m4a"}

// AllowedFile reports whether filename has an accepted extension.
func AllowedFile(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	ext := strings.ToLower(filename[i+1:])
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// SecureFilename reduces name to a safe ASCII file name: path separators
// become spaces, whitespace runs become underscores, and anything outside
// [A-Za-z0-9_.-] is dropped along with leading and trailing dots and
// underscores. The result may be empty.
func SecureFilename(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("/", " ", `\`, " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")

	var b strings.Builder
	for _, r := range folded {
		if r < 0x80 && (r == '_' || r == '.' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}

// Upload is a recording saved from a request.
type Upload struct {
	// Path is where the file was stored.
	Path string
	// Filename is the sanitized client file name.
	Filename string
}

// SaveUpload stores the multipart "file" part of r in dir. Requests without
// the part, with an empty file name, or with an unsupported extension fail
// with an error wrapping ErrInvalidUpload.
func SaveUpload(r *http.Request, dir string, maxBytes int64) (*Upload, error) {
	if maxBytes > 0 {
		if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
		}
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return nil, fmt.Errorf("%w: no %q part in request", ErrInvalidUpload, UploadField)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, fmt.Errorf("%w: no file selected", ErrInvalidUpload)
	}
	if !AllowedFile(header.Filename) {
		return nil, fmt.Errorf("%w: %q is not a %s file", ErrInvalidUpload, header.Filename, strings.Join(AllowedExtensions, ", "))
	}

	name := SecureFilename(header.Filename)
	if !AllowedFile(name) {
		return nil, fmt.Errorf("%w: %q is not a usable file name", ErrInvalidUpload, header.Filename)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := writeUpload(path, file); err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}
	return &Upload{Path: path, Filename: name}, nil
}

func writeUpload(path string, src multipart.File) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
