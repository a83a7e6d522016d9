package api

import (
	"fmt"
	"io"
	"mime/multipart"
)

// Form is a multipart payload: file parts plus scalar fields, in insertion
// order. Fields with an empty value are dropped.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// NewForm returns an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a scalar field unless value is empty.
func (f *Form) AddField(name, value string) *Form {
	if value == "" {
		return f
	}
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part read from content when the request is sent.
func (f *Form) AddFile(field, filename string, content io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

// FieldNames lists the scalar fields that will be sent.
func (f *Form) FieldNames() []string {
	names := make([]string, 0, len(f.fields))
	for _, field := range f.fields {
		names = append(names, field.name)
	}
	return names
}

// stream encodes the form through a pipe so large audio files are never
// buffered in memory. The returned content type carries the boundary.
func (f *Form) stream() (io.Reader, string) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(f.write(writer))
	}()
	return pr, writer.FormDataContentType()
}

func (f *Form) write(writer *multipart.Writer) error {
	for _, file := range f.files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return fmt.Errorf("create form file %q: %w", file.field, err)
		}
		if file.content != nil {
			if _, err := io.Copy(part, file.content); err != nil {
				return fmt.Errorf("write form file %q: %w", file.field, err)
			}
		}
	}
	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return fmt.Errorf("write form field %q: %w", field.name, err)
		}
	}
	return writer.Close()
}
