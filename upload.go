package httpbind

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
)

// FileUpload holds a parsed file from a multipart form upload. Declare a
// FileUpload (or []FileUpload) field inside the Body struct to receive it.
type FileUpload struct {
	Filename string
	Size     int64
	Header   *multipart.FileHeader
	file     multipart.File
}

// Open returns a reader for the uploaded file contents.
func (f *FileUpload) Open() (io.ReadCloser, error) {
	if f.file != nil {
		return f.file, nil
	}
	if f.Header == nil {
		return nil, fmt.Errorf("no file header")
	}
	file, err := f.Header.Open()
	if err != nil {
		return nil, err
	}
	f.file = file
	return file, nil
}

// ParseFileUpload extracts a file upload from a multipart form. It is the
// manual counterpart to FileUpload body fields, for RawHandler use.
func ParseFileUpload(r *http.Request, fieldName string) (*FileUpload, error) {
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, fmt.Errorf("form file %q: %w", fieldName, err)
	}
	return &FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Header:   header,
		file:     file,
	}, nil
}

// fileMap is the multipart file index, keyed by form field name.
type fileMap map[string][]*multipart.FileHeader

// bindFileField populates a FileUpload or []FileUpload body field from the
// parsed multipart form. A missing file is not a failure — optional uploads
// are the norm; pair with a required tag to insist on one.
func bindFileField(field reflect.Value, f reflect.StructField, name string, files fileMap) *ValidationFailure {
	headers := files[name]
	if len(headers) == 0 {
		return nil
	}

	if f.Type == reflect.TypeFor[FileUpload]() {
		up, err := openUpload(headers[0])
		if err != nil {
			fail := bodyFailure(name, err.Error())
			return &fail
		}
		field.Set(reflect.ValueOf(up))
		return nil
	}

	uploads := make([]FileUpload, 0, len(headers))
	for _, header := range headers {
		up, err := openUpload(header)
		if err != nil {
			fail := bodyFailure(name, err.Error())
			return &fail
		}
		uploads = append(uploads, up)
	}
	field.Set(reflect.ValueOf(uploads))
	return nil
}

func openUpload(header *multipart.FileHeader) (FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return FileUpload{}, fmt.Errorf("unreadable file part: %v", err)
	}
	return FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Header:   header,
		file:     file,
	}, nil
}
