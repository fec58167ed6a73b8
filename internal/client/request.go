package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
)

// Request is one logical call against the backend. Path is relative to the
// client's base URL.
type Request struct {
	Method string
	Path   string
	// Body is JSON-encoded when set.
	Body   any
	Header http.Header
	// Form switches the call to multipart/form-data.
	Form *Form
	// SkipAuth sends the call without a bearer token.
	SkipAuth bool
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Form is a multipart body with one file part. It is re-encoded for every
// attempt so a retried call never reuses a consumed reader.
type Form struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
	Fields      map[string]string
}

func (r Request) encode() (io.Reader, string, error) {
	switch {
	case r.Form != nil:
		return r.Form.encode()
	case r.Body != nil:
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	default:
		return nil, "application/json", nil
	}
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(f.Fields))
	for key := range f.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := writer.WriteField(key, f.Fields[key]); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", key, err)
		}
	}

	field := f.FieldName
	if field == "" {
		field = "file"
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(f.FileName)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(f.Content); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
