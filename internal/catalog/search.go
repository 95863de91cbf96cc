// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package catalog

import (
	"github.com/fndrorato/webscrap-ia/pkg/fold"
)

// Kind names one of the four lists.
type Kind string

const (
	KindSupplier    Kind = "suppliers"
	KindBrand       Kind = "brands"
	KindCategory    Kind = "categories"
	KindSubcategory Kind = "subcategories"
)

// Kinds lists every [Kind] in display order.
var Kinds = []Kind{KindSupplier, KindBrand, KindCategory, KindSubcategory}

// Valid reports whether k names a known list.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Entry is a flattened catalog record used for selection controls.
type Entry struct {
	Kind       Kind   `json:"kind"`
	Code       string `json:"code"`
	Label      string `json:"label"`
	ParentCode string `json:"parentCode,omitempty"`
}

// Entries flattens one list. An unknown kind yields nothing.
func (c *Catalog) Entries(kind Kind) []Entry {
	var entries []Entry

	switch kind {
	case KindSupplier:
		for _, s := range c.Suppliers {
			entries = append(entries, Entry{Kind: kind, Code: s.Code, Label: s.Name})
		}
	case KindBrand:
		for _, b := range c.Brands {
			entries = append(entries, Entry{Kind: kind, Code: b.Code, Label: b.Description})
		}
	case KindCategory:
		for _, r := range c.Categories {
			entries = append(entries, Entry{Kind: kind, Code: r.Code, Label: r.Description})
		}
	case KindSubcategory:
		for _, g := range c.Subcategories {
			entries = append(entries, Entry{Kind: kind, Code: g.Code, Label: g.Description, ParentCode: g.CategoryCode})
		}
	}

	return entries
}

/*
Search returns entries whose label or code contains query, ignoring case and accents.

Parameters:
  - kind: Kind (empty searches every list)
  - query: string (empty matches everything)
  - limit: int (<= 0 means unlimited)

Returns:
  - []Entry: Matches in list order
*/
func (c *Catalog) Search(kind Kind, query string, limit int) []Entry {
	kinds := Kinds
	if kind != "" {
		kinds = []Kind{kind}
	}

	needle := fold.String(query)

	var matches []Entry
	for _, k := range kinds {
		for _, entry := range c.Entries(k) {
			if needle != "" && !fold.Contains(entry.Label, needle) && !fold.Contains(entry.Code, needle) {
				continue
			}

			matches = append(matches, entry)
			if limit > 0 && len(matches) == limit {
				return matches
			}
		}
	}

	return matches
}
