// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package catalog

import (
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
)

// Selection is the classification staff choose when approving a product.
type Selection struct {
	SupplierCode    string `json:"cod_proveedor"`
	BrandCode       string `json:"cod_marca"`
	CategoryCode    string `json:"cod_rubro"`
	SubcategoryCode string `json:"cod_grupo"`
}

/*
CheckSelection validates an approval selection against the snapshot.

Rules:
  - The supplier is required and must exist.
  - Brand and category are optional but must exist when given.
  - A subcategory requires a category and must belong to it.

A nil catalog only enforces the supplier requirement; the collaborator has
the final word in that case.

Returns:
  - error: *apperr.AppError (VALIDATION_ERROR)
*/
func (c *Catalog) CheckSelection(selection Selection) error {
	v := &validate.Validator{}
	v.Required("cod_proveedor", selection.SupplierCode)

	if c == nil {
		return v.Err()
	}

	if selection.SupplierCode != "" {
		_, ok := c.Supplier(selection.SupplierCode)
		v.Custom("cod_proveedor", !ok, "unknown supplier")
	}

	if selection.BrandCode != "" {
		_, ok := c.Brand(selection.BrandCode)
		v.Custom("cod_marca", !ok, "unknown brand")
	}

	if selection.CategoryCode != "" {
		_, ok := c.Category(selection.CategoryCode)
		v.Custom("cod_rubro", !ok, "unknown category")
	}

	if selection.SubcategoryCode != "" {
		group, ok := c.Subcategory(selection.SubcategoryCode)
		v.Custom("cod_grupo", !ok, "unknown subcategory")
		if ok {
			v.Custom("cod_grupo", group.CategoryCode != selection.CategoryCode,
				"subcategory does not belong to the selected category")
		}
	}

	return v.Err()
}
