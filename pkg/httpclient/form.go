package httpclient

import "io"

// FormData is a multipart payload. It is sent as-is; the transport assigns the
// multipart content type and boundary.
type FormData struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is a single file part of a FormData payload.
type FormFile struct {
	Field    string
	FileName string
	Reader   io.Reader
}

// AddField sets a plain form field.
func (f *FormData) AddField(name, value string) *FormData {
	if f.Fields == nil {
		f.Fields = make(map[string]string)
	}
	f.Fields[name] = value
	return f
}

// AddFile appends a file part.
func (f *FormData) AddFile(field, fileName string, r io.Reader) *FormData {
	f.Files = append(f.Files, FormFile{Field: field, FileName: fileName, Reader: r})
	return f
}
