// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package upstream

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
)

// Form is a multipart/form-data body. It is encoded once and replayed on retry.
type Form struct {
	Fields map[string]string
	Files  []File
}

// File is one file part of a [Form].
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

func (form *Form) encode() ([]byte, string, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	names := make([]string, 0, len(form.Fields))
	for name := range form.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := writer.WriteField(name, form.Fields[name]); err != nil {
			return nil, "", fmt.Errorf("upstream_form_field_failed: %w", err)
		}
	}

	for _, file := range form.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))

		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("upstream_form_file_failed: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("upstream_form_file_failed: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("upstream_form_close_failed: %w", err)
	}

	return buffer.Bytes(), writer.FormDataContentType(), nil
}
