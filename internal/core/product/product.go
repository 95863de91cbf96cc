// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package product implements the moderation queue for scraped product listings.

Listings are browsed by status (pending, approved, declined). Approving one
sends the chosen catalog classification along with the new status; the local
row changes only after the backend confirms.
*/
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// # Product Enums

// Status is the moderation state of a listing.
type Status int

const (
	StatusDeclined Status = 0
	StatusPending  Status = 1
	StatusApproved Status = 2
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusDeclined && s <= StatusApproved
}

func (s Status) String() string {
	switch s {
	case StatusDeclined:
		return "declined"
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	}
	return strconv.Itoa(int(s))
}

// ParseStatus accepts either the number or the name of a status.
func ParseStatus(raw string) (Status, error) {
	for _, s := range []Status{StatusDeclined, StatusPending, StatusApproved} {
		if raw == s.String() || raw == strconv.Itoa(int(s)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("product_status_invalid: %q", raw)
}

// # Core Entities

// Image is one picture attached to a listing.
type Image struct {
	ID          int    `json:"id"`
	ImageURL    string `json:"image_url"`
	IsMain      bool   `json:"is_main"`
	AltText     string `json:"alt_text"`
	Order       int    `json:"order"`
	OriginalURL string `json:"original_url"`
}

// Product is one scraped listing.
type Product struct {
	ID           int     `json:"id"`
	MainImageURL string  `json:"main_image_url"`
	Images       []Image `json:"images"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        Amount  `json:"price"`
	SKUCode      string  `json:"sku_code"`
	CreatedAt    string  `json:"created_at"`
	Status       Status  `json:"status"`
}

// Amount is a decimal price kept as text. The backend sends it as a string,
// a number or null.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*a = Amount(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("product_price_invalid: %w", err)
	}
	*a = Amount(number.String())
	return nil
}

// # Status Change

// StatusChange is the body of an update-status call.
type StatusChange struct {
	ID              int    `json:"id"`
	Status          Status `json:"status"`
	SupplierCode    string `json:"cod_proveedor,omitempty"`
	BrandCode       string `json:"cod_marca,omitempty"`
	CategoryCode    string `json:"cod_rubro,omitempty"`
	SubcategoryCode string `json:"cod_grupo,omitempty"`
}

// SyncReport describes the downstream export triggered by an approval.
type SyncReport struct {
	Executed     bool     `json:"executed"`
	SuccessCount int      `json:"success_count,omitempty"`
	ErrorCount   int      `json:"error_count,omitempty"`
	Errors       []string `json:"errors,omitempty"`
	Error        string   `json:"error,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// UpdateResult is the backend's answer to a confirmed status change.
type UpdateResult struct {
	Message string      `json:"message"`
	Warning string      `json:"warning,omitempty"`
	Sync    *SyncReport `json:"oracle_sync,omitempty"`
}

// # Field Identifiers

const (
	FieldID     = "id"
	FieldStatus = "status"
	FieldQuery  = "query"
)
