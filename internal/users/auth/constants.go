// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package auth

import "time"

// # Authentication Constraints

const (
	// VerifyTimeout bounds the token check run at startup.
	VerifyTimeout = 10 * time.Second

	// PermissionSeparator joins permissions in log lines only; storage uses JSON.
	PermissionSeparator = ","
)
