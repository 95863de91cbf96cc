// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package live keeps view collections in step with the messaging backend's push
events.

A [Conn] is one websocket connection with a terminal lifecycle:

	Connecting -> Open -> Closed

A [Subscriber] owns the reconnect loop for one mounted view. Every retry
creates a fresh [Conn], waiting between attempts according to an injected
[backoff.BackOff] policy.
*/
package live

import (
	"fmt"
	"net/url"
	"strings"
)

/*
EndpointFor derives the push address from the REST base address.

The first "http" is replaced by "ws" (so https becomes wss), a trailing slash
is trimmed and path is appended.

Returns:
  - string: Absolute ws:// or wss:// URL
  - error: When apiBase is not an http(s) address
*/
func EndpointFor(apiBase, path string) (string, error) {
	if !strings.HasPrefix(apiBase, "http://") && !strings.HasPrefix(apiBase, "https://") {
		return "", fmt.Errorf("live_endpoint_invalid: %q is not an http(s) address", apiBase)
	}

	endpoint := strings.TrimSuffix(strings.Replace(apiBase, "http", "ws", 1), "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint += path

	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("live_endpoint_invalid: %w", err)
	}
	return endpoint, nil
}
