package types

// BufferedFile is an upload fully read into memory, ready to be re-sent.
type BufferedFile struct {
	MediaType    string `json:"mediaType" validate:"required"`
	OriginalName string `json:"originalName" validate:"required"`
	Encoding     string `json:"encoding"`
	MimeType     string `json:"mimetype" validate:"required"`
	Size         int    `json:"size" validate:"required"`
	Buffer       []byte `json:"-"`
}

// HasContent reports whether the file carries any bytes.
func (f *BufferedFile) HasContent() bool {
	return f != nil && f.Size > 0 && len(f.Buffer) > 0
}
