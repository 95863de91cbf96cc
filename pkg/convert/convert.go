// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package convert provides fault-tolerant conversions for query parameters.

Do not use it where a malformed value must be told apart from the zero value;
use [strconv] directly instead.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToBool parses a boolean string ("true", "1", "false", "0").
// It returns false on empty string or parse error.
func ToBool(s string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(s))
	return v
}
