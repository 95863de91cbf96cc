// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package catalog holds the reference lookups used to classify scraped products.

A [Catalog] has four lists: suppliers (fornecedores), brands (marcas),
categories (rubros) and subcategories (grupos). Every record has a stable
code and a display label; subcategories also name their parent category.

A catalog is an immutable snapshot. It is replaced wholesale on login or
refresh and never patched in place, so callers may share the pointer freely
as long as they do not modify it.
*/
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
)

// # Records

// Supplier is a product supplier.
type Supplier struct {
	Name string `json:"nombre"`
	Code string `json:"cod_proveedor"`
}

// Brand is a product brand.
type Brand struct {
	Code        string `json:"cod_marca"`
	Description string `json:"descripcion"`
}

// Category is a top-level product category (rubro).
type Category struct {
	Code        string `json:"cod_rubro"`
	Description string `json:"descripcion"`
}

// Subcategory is a product group that belongs to one [Category].
type Subcategory struct {
	Code         string `json:"cod_grupo"`
	CategoryCode string `json:"cod_rubro"`
	Description  string `json:"descripcion"`
}

// Counts mirrors the totals the collaborator sends with a catalog.
type Counts struct {
	Suppliers     int `json:"fornecedores"`
	Brands        int `json:"marcas"`
	Categories    int `json:"rubros"`
	Subcategories int `json:"grupos"`
}

// Catalog is the full lookup snapshot.
type Catalog struct {
	Suppliers     []Supplier    `json:"fornecedores"`
	Brands        []Brand       `json:"marcas"`
	Categories    []Category    `json:"rubros"`
	Subcategories []Subcategory `json:"grupos"`
	Counts        *Counts       `json:"counts,omitempty"`
}

// # Encoding

// Parse decodes and validates a serialized catalog.
func Parse(raw string) (*Catalog, error) {
	decoded := &Catalog{}
	if err := json.Unmarshal([]byte(raw), decoded); err != nil {
		return nil, fmt.Errorf("catalog: decode failed: %w", err)
	}

	if err := decoded.Validate(); err != nil {
		return nil, err
	}
	return decoded, nil
}

// Encode serializes the catalog for persistence.
func (c *Catalog) Encode() (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("catalog: encode failed: %w", err)
	}
	return string(payload), nil
}

// # Invariants

/*
Validate checks the structural invariants of a snapshot.

Rules:
  - Codes are non-empty and unique within their list.
  - A subcategory's parent code resolves to an existing category.

Returns:
  - error: *apperr.AppError (VALIDATION_ERROR) listing every violation
*/
func (c *Catalog) Validate() error {
	var details []apperr.FieldError

	report := func(field, format string, args ...any) {
		details = append(details, apperr.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	checkCodes := func(field string, codes []string) {
		seen := make(map[string]struct{}, len(codes))
		for index, code := range codes {
			if strings.TrimSpace(code) == "" {
				report(field, "entry %d has an empty code", index)
				continue
			}
			if _, dup := seen[code]; dup {
				report(field, "duplicate code %q", code)
			}
			seen[code] = struct{}{}
		}
	}

	checkCodes("fornecedores", collect(c.Suppliers, func(s Supplier) string { return s.Code }))
	checkCodes("marcas", collect(c.Brands, func(b Brand) string { return b.Code }))
	checkCodes("rubros", collect(c.Categories, func(r Category) string { return r.Code }))
	checkCodes("grupos", collect(c.Subcategories, func(g Subcategory) string { return g.Code }))

	for _, group := range c.Subcategories {
		if group.CategoryCode == "" {
			continue
		}
		if _, ok := c.Category(group.CategoryCode); !ok {
			report("grupos", "group %q references unknown rubro %q", group.Code, group.CategoryCode)
		}
	}

	if len(details) > 0 {
		return apperr.ValidationError("Catalog is inconsistent", details...)
	}
	return nil
}

// # Lookups

// Supplier finds a supplier by code.
func (c *Catalog) Supplier(code string) (Supplier, bool) {
	return find(c.Suppliers, func(s Supplier) bool { return s.Code == code })
}

// Brand finds a brand by code.
func (c *Catalog) Brand(code string) (Brand, bool) {
	return find(c.Brands, func(b Brand) bool { return b.Code == code })
}

// Category finds a category by code.
func (c *Catalog) Category(code string) (Category, bool) {
	return find(c.Categories, func(r Category) bool { return r.Code == code })
}

// Subcategory finds a subcategory by code.
func (c *Catalog) Subcategory(code string) (Subcategory, bool) {
	return find(c.Subcategories, func(g Subcategory) bool { return g.Code == code })
}

// SubcategoriesOf lists the subcategories whose parent is categoryCode.
func (c *Catalog) SubcategoriesOf(categoryCode string) []Subcategory {
	var children []Subcategory
	for _, group := range c.Subcategories {
		if group.CategoryCode == categoryCode {
			children = append(children, group)
		}
	}
	return children
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func collect[T any](items []T, key func(T) string) []string {
	keys := make([]string, len(items))
	for index, item := range items {
		keys[index] = key(item)
	}
	return keys
}
