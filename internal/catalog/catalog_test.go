// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
)

const sampleJSON = `{
	"fornecedores": [{"nombre": "Distribuidora Asunción", "cod_proveedor": "P1"}],
	"marcas": [{"cod_marca": "M1", "descripcion": "Samsung"}],
	"rubros": [
		{"cod_rubro": "R1", "descripcion": "Informática"},
		{"cod_rubro": "R2", "descripcion": "Teléfonos"}
	],
	"grupos": [
		{"cod_grupo": "G1", "cod_rubro": "R1", "descripcion": "Periféricos"},
		{"cod_grupo": "G2", "cod_rubro": "R2", "descripcion": "Móviles"}
	],
	"counts": {"fornecedores": 1, "marcas": 1, "rubros": 2, "grupos": 2}
}`

func sample(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse(sampleJSON)
	require.NoError(t, err)
	return c
}

/*
TestParse_RoundTrip checks that an encoded catalog parses back identically.
*/
func TestParse_RoundTrip(t *testing.T) {
	original := sample(t)

	encoded, err := original.Encode()
	require.NoError(t, err)

	decoded, err := catalog.Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Equal(t, 2, decoded.Counts.Subcategories)
}

/*
TestValidate_Invariants rejects dangling parents, duplicates and garbage.
*/
func TestValidate_Invariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"dangling_parent", `{"rubros":[{"cod_rubro":"R1"}],"grupos":[{"cod_grupo":"G1","cod_rubro":"R9"}]}`},
		{"duplicate_code", `{"marcas":[{"cod_marca":"M1"},{"cod_marca":"M1"}]}`},
		{"empty_code", `{"fornecedores":[{"nombre":"x","cod_proveedor":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse(tt.raw)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}

	_, err := catalog.Parse("not-json")
	assert.Error(t, err)
}

/*
TestCheckSelection covers the approval rules.
*/
func TestCheckSelection(t *testing.T) {
	c := sample(t)

	tests := []struct {
		name      string
		selection catalog.Selection
		wantField string
	}{
		{"supplier_only", catalog.Selection{SupplierCode: "P1"}, ""},
		{"full_consistent", catalog.Selection{SupplierCode: "P1", BrandCode: "M1", CategoryCode: "R1", SubcategoryCode: "G1"}, ""},
		{"missing_supplier", catalog.Selection{CategoryCode: "R1"}, "cod_proveedor"},
		{"unknown_supplier", catalog.Selection{SupplierCode: "P9"}, "cod_proveedor"},
		{"unknown_brand", catalog.Selection{SupplierCode: "P1", BrandCode: "M9"}, "cod_marca"},
		{"mismatched_group", catalog.Selection{SupplierCode: "P1", CategoryCode: "R1", SubcategoryCode: "G2"}, "cod_grupo"},
		{"group_without_category", catalog.Selection{SupplierCode: "P1", SubcategoryCode: "G1"}, "cod_grupo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CheckSelection(tt.selection)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantField, ae.Details[0].Field)
		})
	}

	var missing *catalog.Catalog
	assert.NoError(t, missing.CheckSelection(catalog.Selection{SupplierCode: "anything"}))
	assert.Error(t, missing.CheckSelection(catalog.Selection{}))
}

/*
TestSearch ignores accents and case, and respects kind and limit.
*/
func TestSearch(t *testing.T) {
	c := sample(t)

	matches := c.Search("", "informatica", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, catalog.KindCategory, matches[0].Kind)

	matches = c.Search(catalog.KindSubcategory, "MOVIL", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "R2", matches[0].ParentCode)

	assert.Len(t, c.Search("", "", 2), 2)
	assert.Empty(t, c.Search(catalog.KindBrand, "apple", 0))
}
