package attachment

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestEncodePNG(t *testing.T) {
	enc, err := Encode("bukti.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc.File.MimeType != "image/png" || enc.File.Size != len(pngBytes) {
		t.Fatalf("unexpected file %+v", enc.File)
	}
	if !strings.HasPrefix(enc.Preview, "data:image/png;base64,iVBORw0KGgo") {
		t.Fatalf("unexpected preview %q", enc.Preview)
	}
	if enc.OverSoftLimit {
		t.Fatal("small file flagged over limit")
	}
}

func TestEncodeRejectsNonImage(t *testing.T) {
	_, err := Encode("notes.txt", strings.NewReader("just some text"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode("empty.png", bytes.NewReader(nil)); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestEncodeFlagsLargeFilesWithoutRejecting(t *testing.T) {
	big := append(append([]byte{}, pngBytes...), make([]byte, SoftLimitBytes)...)
	enc, err := Encode("big.png", bytes.NewReader(big))
	if err != nil {
		t.Fatalf("large file must be accepted: %v", err)
	}
	if !enc.OverSoftLimit {
		t.Fatal("expected over_soft_limit")
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestEncodeRejectsOverHardLimit(t *testing.T) {
	endless := io.MultiReader(bytes.NewReader(pngBytes), zeroReader{})
	_, err := Encode("huge.png", endless)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if got := HTTPStatus(err); got != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", got)
	}
}

func TestEncodeAcceptsExactlyHardLimit(t *testing.T) {
	limited := io.MultiReader(bytes.NewReader(pngBytes), io.LimitReader(zeroReader{}, HardLimitBytes-int64(len(pngBytes))))
	enc, err := Encode("edge.png", limited)
	if err != nil {
		t.Fatalf("file at the cap must be accepted: %v", err)
	}
	if enc.File.Size != HardLimitBytes || !enc.OverSoftLimit {
		t.Fatalf("unexpected file size %d", enc.File.Size)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrTooLarge, http.StatusRequestEntityTooLarge},
		{ErrNotImage, http.StatusUnprocessableEntity},
		{ErrEmptyFile, http.StatusBadRequest},
		{errors.New("read upload: broken pipe"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestEncodeNamesNamelessUpload(t *testing.T) {
	enc, err := Encode("", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	if enc.File.OriginalName != "bukti.png" {
		t.Fatalf("unexpected name %q", enc.File.OriginalName)
	}
}

func TestFromMultipart(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("file", "../../bukti.png")
	_, _ = part.Write(pngBytes)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}

	enc, err := FromMultipart(req.MultipartForm.File["file"][0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc.File.OriginalName != "bukti.png" {
		t.Fatalf("expected base name, got %q", enc.File.OriginalName)
	}
}

func TestPreviewOfEmptyFile(t *testing.T) {
	if Preview(nil) != "" {
		t.Fatal("expected empty preview")
	}
}
