// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package upstream

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
)

// envelope holds the body fields the collaborator uses to flag failure on
// top of (or instead of) the transport status.
type envelope struct {
	StatusCode *int            `json:"status_code"`
	Success    *bool           `json:"success"`
	Detail     json.RawMessage `json:"detail"`
	Error      json.RawMessage `json:"error"`
	Message    json.RawMessage `json:"message"`
}

// check maps a response to an error. Both the transport status and the body
// markers are consulted.
func check(status int, body []byte) error {
	parsed, isObject := parseEnvelope(body)

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return apperr.ServerReported(status, messageOf(body, http.StatusText(status)))
	}

	if !isObject {
		return nil
	}

	if parsed.StatusCode != nil && (*parsed.StatusCode < http.StatusOK || *parsed.StatusCode >= http.StatusMultipleChoices) {
		return apperr.ServerReported(*parsed.StatusCode, messageOf(body, ""))
	}

	if parsed.Success != nil && !*parsed.Success {
		return apperr.ServerReported(status, messageOf(body, ""))
	}

	if text := rawText(parsed.Error); text != "" {
		return apperr.ServerReported(status, text)
	}

	return nil
}

// messageOf extracts the most specific human message from a body.
func messageOf(body []byte, fallback string) string {
	parsed, isObject := parseEnvelope(body)
	if !isObject {
		return fallback
	}

	for _, raw := range []json.RawMessage{parsed.Detail, parsed.Error, parsed.Message} {
		if text := rawText(raw); text != "" {
			return text
		}
	}
	return fallback
}

func parseEnvelope(body []byte) (envelope, bool) {
	var parsed envelope

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return parsed, false
	}
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return parsed, false
	}
	return parsed, true
}

// rawText renders a string field as-is and any other non-null JSON value compactly.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return ""
	}
	return compact.String()
}
