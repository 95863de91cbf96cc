// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package constants provides centralized, immutable values for the entire console.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the local HTTP surface.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Persisted State: The fixed set of durable client-state keys.
  - Upstream: Collaborator endpoints and header names.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "whatschannel-console"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Longer than usual because account photo uploads are proxied upstream.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 45 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 15 * time.Second

	// MaxUploadBytes caps multipart bodies accepted by the local surface.
	MaxUploadBytes = 16 << 20
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Persisted Client State

// StateSchemaVersion is written alongside every login. Bump it when a new
// required identity field is introduced.
const StateSchemaVersion = 1

// Durable client-state keys. The names match what earlier console builds wrote.
const (
	KeySchemaVersion = "schemaVersion"
	KeyAccessToken   = "accessToken"
	KeyRefreshToken  = "refreshToken"
	KeyFirstName     = "firstName"
	KeyLastName      = "lastName"
	KeyEmail         = "email"
	KeyUserID        = "userId"
	KeyPermissions   = "permissions"
	KeyPhone         = "phone"
	KeyPhoto         = "photoUser"
	KeyCatalog       = "catalog"
)

// PersistedKeys lists every key owned by the session store. Logout clears all of them.
var PersistedKeys = []string{
	KeySchemaVersion,
	KeyAccessToken,
	KeyRefreshToken,
	KeyFirstName,
	KeyLastName,
	KeyEmail,
	KeyUserID,
	KeyPermissions,
	KeyPhone,
	KeyPhoto,
	KeyCatalog,
}

// RequiredIdentityKeys must all be present for a session to be rehydrated.
var RequiredIdentityKeys = []string{
	KeyFirstName,
	KeyLastName,
	KeyEmail,
	KeyUserID,
	KeyPermissions,
}

// # Upstream Collaborator

const (
	// DefaultEventStreamPath is appended to the ws-substituted API base.
	DefaultEventStreamPath = "/ws/sessions/"

	// TokenRefreshLeeway refreshes an access token this long before it expires.
	TokenRefreshLeeway = 30 * time.Second

	// PushHandshakeTimeout bounds the websocket opening handshake.
	PushHandshakeTimeout = 10 * time.Second

	// PushReadLimit caps a single push frame.
	PushReadLimit = 64 << 10
)

// Collaborator REST paths.
const (
	PathTokenObtain   = "/api/v1/auth/token/"
	PathTokenVerify   = "/api/v1/auth/token/verify/"
	PathTokenRefresh  = "/api/v1/auth/token/refresh/"
	PathUserPhoto     = "/api/v1/user/photo/"
	PathUserPassword  = "/api/v1/user/change-password/"
	PathSessions      = "/api/v1/sessions/"
	PathChannels      = "/api/v1/channels/"
	PathChannelsOwned = "/api/v1/channels/default/"
	PathProducts      = "/api/v1/products/"
	PathProductSearch = "/api/v1/products/nissei-search-detailed/"
	PathReportPosts   = "/api/v1/reports/posts/"
	PathUsers         = "/api/v1/users/"
	PathGroups        = "/api/v1/groups/"

	// Channel posts. Each is followed by {channel}/ and, for edits and deletes, {post}/.
	PathPostSend   = "/api/v1/posts/channel/send_message/"
	PathPostUpdate = "/api/v1/posts/channel/update_message/"
	PathPostDelete = "/api/v1/posts/channel/delete_message/"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes

const (
	// RedisPrefixState namespaces the hash that holds one console's client state.
	RedisPrefixState = "console:state:"
)
