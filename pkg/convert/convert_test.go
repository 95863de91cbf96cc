// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fndrorato/webscrap-ia/pkg/convert"
)

/*
TestToBool checks the accepted spellings and the silent fallback.
*/
func TestToBool(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "true", input: "true", want: true},
		{name: "one", input: "1", want: true},
		{name: "padded", input: " true ", want: true},
		{name: "false", input: "false", want: false},
		{name: "empty", input: "", want: false},
		{name: "garbage", input: "yes please", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convert.ToBool(tt.input))
		})
	}
}
