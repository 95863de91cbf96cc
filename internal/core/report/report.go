// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package report serves the posts report: what was published on each channel
and how it was received.

The backend returns the whole filtered table at once; the console keeps the
last result and pages it locally.
*/
package report

import (
	"encoding/json"
	"time"

	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// DateLayout is the format of the date filters.
const DateLayout = "2006-01-02"

// Post is one row of the posts report.
type Post struct {
	ID             int             `json:"id"`
	FileURL        *string         `json:"file_url"`
	Text           string          `json:"text"`
	Channel        string          `json:"channel"`
	Datetime       string          `json:"datetime"`
	Reactions      json.RawMessage `json:"reactions,omitempty"`
	TotalReactions int             `json:"total_reactions"`
}

// Filter narrows the report. Empty fields are not sent.
type Filter struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Channel   string `json:"channel,omitempty"`
}

// # Field Identifiers

const (
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldChannel   = "channel"
)

// Validate checks the date format and that the range is not inverted.
func (filter Filter) Validate() error {
	validator := &validate.Validator{}

	start, startErr := parseDate(filter.StartDate)
	end, endErr := parseDate(filter.EndDate)

	validator.Custom(FieldStartDate, startErr != nil, "Must be a date in YYYY-MM-DD format").
		Custom(FieldEndDate, endErr != nil, "Must be a date in YYYY-MM-DD format")

	if startErr == nil && endErr == nil && !start.IsZero() && !end.IsZero() {
		validator.Custom(FieldEndDate, end.Before(start), "Must not be before start_date")
	}

	return validator.Err()
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, raw)
}
