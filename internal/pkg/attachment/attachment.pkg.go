package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	types "refund-relay/internal/common/type"

	"github.com/gabriel-vasile/mimetype"
)

// SoftLimitBytes is the size the form advertises. Larger files are accepted
// and only flagged.
const SoftLimitBytes = 5 << 20

// HardLimitBytes caps how much of an upload is ever buffered.
const HardLimitBytes = 4 * SoftLimitBytes

var (
	ErrEmptyFile = errors.New("file is empty")
	ErrNotImage  = errors.New("file is not an image")
	ErrTooLarge  = errors.New("file is too large")
)

// Encoded is an uploaded image ready to be stored on a draft and shown back.
type Encoded struct {
	File          *types.BufferedFile `json:"file"`
	Preview       string              `json:"preview"`
	OverSoftLimit bool                `json:"over_soft_limit"`
}

// FromMultipart reads an uploaded form file.
func FromMultipart(header *multipart.FileHeader) (*Encoded, error) {
	if header == nil {
		return nil, ErrEmptyFile
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return Encode(header.Filename, f)
}

// Encode buffers r and checks the sniffed type is an image. The declared
// content type is ignored in favour of the bytes.
func Encode(name string, r io.Reader) (*Encoded, error) {
	buf, err := io.ReadAll(io.LimitReader(r, HardLimitBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > HardLimitBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, HardLimitBytes)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyFile
	}

	mt := mimetype.Detect(buf)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "bukti" + mt.Extension()
	}

	file := &types.BufferedFile{
		MediaType:    "image",
		OriginalName: name,
		MimeType:     mimeOnly(mt.String()),
		Size:         len(buf),
		Buffer:       buf,
	}

	return &Encoded{
		File:          file,
		Preview:       Preview(file),
		OverSoftLimit: file.Size > SoftLimitBytes,
	}, nil
}

// HTTPStatus maps an Encode error to the status the upload routes answer with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotImage):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// Preview renders file as a data URL, empty when there is nothing to show.
func Preview(file *types.BufferedFile) string {
	if !file.HasContent() {
		return ""
	}
	return "data:" + file.MimeType + ";base64," + base64.StdEncoding.EncodeToString(file.Buffer)
}

// mimeOnly drops parameters such as charset.
func mimeOnly(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
