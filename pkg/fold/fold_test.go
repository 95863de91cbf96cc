// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fndrorato/webscrap-ia/pkg/fold"
)

func TestString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Eletrônicos", "eletronicos"},
		{"  INFORMÁTICA / Periféricos ", "informatica perifericos"},
		{"Ação-Ñandú", "acao nandu"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fold.String(tt.in))
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, fold.Contains("Teléfonos Móviles", "movil"))
	assert.True(t, fold.Contains("anything", ""))
	assert.False(t, fold.Contains("Audio", "video"))
}
