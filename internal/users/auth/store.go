// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/clientstate"
	"github.com/fndrorato/webscrap-ia/internal/platform/constants"
	"github.com/fndrorato/webscrap-ia/internal/platform/ctxutil"
	"github.com/fndrorato/webscrap-ia/internal/platform/tokens"
)

// # Session Store

/*
Store is the single source of truth for who is logged in.

It is either absent (no identity, no token, no catalog) or present. Mutations
(Login, Logout, UpdateUser, SetToken) are serialized and finish every storage
write before the in-memory state changes, so neither another goroutine nor a
restarted process can observe a half-written session.
*/
type Store struct {
	mu      sync.RWMutex
	storage clientstate.Storage
	logger  *slog.Logger

	identity *Identity
	token    *oauth2.Token
	catalog  *catalog.Catalog
}

/*
Open bootstraps a store from persisted state.

Description: Reads every persisted key once. A complete, parseable layout is
rehydrated; a corrupted or inconsistent one is cleared and the store starts
absent. Corruption never surfaces as an error.

Parameters:
  - ctx: context.Context
  - storage: clientstate.Storage
  - logger: *slog.Logger

Returns:
  - *Store: The bootstrapped store
  - error: Only when the storage itself cannot be read or cleared
*/
func Open(ctx context.Context, storage clientstate.Storage, logger *slog.Logger) (*Store, error) {
	store := &Store{storage: storage, logger: logger}

	values, err := storage.Load(ctx, constants.PersistedKeys...)
	if errors.Is(err, clientstate.ErrCorrupted) {
		if err := store.reset(ctx, apperr.CorruptedState("state", err)); err != nil {
			return nil, err
		}
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth_store_bootstrap_failed: %w", err)
	}

	if err := store.hydrate(ctx, values); err != nil {
		if err := store.reset(ctx, err); err != nil {
			return nil, err
		}
	}

	if identity, ok := store.Current(); ok {
		logger.Info("session_store_bootstrapped",
			slog.String("user_id", identity.UserID),
			slog.Int("permissions", len(identity.Permissions)),
			slog.Bool("catalog", store.catalog != nil),
		)
	} else {
		logger.Info("session_store_bootstrapped", slog.Bool("present", false))
	}

	return store, nil
}

// hydrate rebuilds the in-memory session from values. It returns a
// CorruptedState error for any layout that must be reset.
func (store *Store) hydrate(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	for _, key := range constants.RequiredIdentityKeys {
		if _, ok := values[key]; !ok {
			return apperr.CorruptedState(key, errors.New("required key missing"))
		}
	}

	legacy := false
	if raw, ok := values[constants.KeySchemaVersion]; ok {
		version, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.CorruptedState(constants.KeySchemaVersion, err)
		}
		if version > constants.StateSchemaVersion {
			return apperr.CorruptedState(constants.KeySchemaVersion,
				fmt.Errorf("version %d is newer than supported %d", version, constants.StateSchemaVersion))
		}
	} else {
		legacy = true
	}

	var permissions []string
	if err := json.Unmarshal([]byte(values[constants.KeyPermissions]), &permissions); err != nil {
		return apperr.CorruptedState(constants.KeyPermissions, err)
	}

	identity := Identity{
		FirstName:   values[constants.KeyFirstName],
		LastName:    values[constants.KeyLastName],
		Email:       values[constants.KeyEmail],
		UserID:      values[constants.KeyUserID],
		Phone:       values[constants.KeyPhone],
		Photo:       values[constants.KeyPhoto],
		Permissions: permissions,
	}.clone()

	if strings.TrimSpace(identity.UserID) == "" {
		return apperr.CorruptedState(constants.KeyUserID, errors.New("empty user id"))
	}

	var active *catalog.Catalog
	if raw := values[constants.KeyCatalog]; raw != "" {
		parsed, err := catalog.Parse(raw)
		if err != nil {
			return apperr.CorruptedState(constants.KeyCatalog, err)
		}
		active = parsed
	}

	var token *oauth2.Token
	if access := values[constants.KeyAccessToken]; access != "" {
		token = tokens.FromPair(access, values[constants.KeyRefreshToken])
	}

	if legacy {
		stamp := map[string]string{constants.KeySchemaVersion: strconv.Itoa(constants.StateSchemaVersion)}
		if err := store.storage.Save(ctx, stamp); err != nil {
			return fmt.Errorf("auth_store_stamp_failed: %w", err)
		}
		store.logger.Info("session_store_schema_stamped", slog.Int("version", constants.StateSchemaVersion))
	}

	store.mu.Lock()
	store.identity, store.token, store.catalog = &identity, token, active
	store.mu.Unlock()

	return nil
}

// reset logs why the persisted state was rejected and clears it.
func (store *Store) reset(ctx context.Context, cause error) error {
	store.logger.Warn("session_store_reset", slog.Any("error", cause))
	if ae := apperr.As(cause); ae != nil && ae.Cause != nil {
		store.logger.Debug("session_store_reset_cause", slog.Any("cause", ae.Cause))
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.storage.Delete(ctx, constants.PersistedKeys...); err != nil {
		return fmt.Errorf("auth_store_reset_failed: %w", err)
	}

	store.identity, store.token, store.catalog = nil, nil, nil
	return nil
}

// # Mutations

/*
Login persists a new session and makes it current.

Description: No network call is made; the identity and tokens come from the
collaborator through [Service.Login]. Every key is written in one batch.
Optional fields that are empty are written empty, so nothing from a previous
session survives.

Parameters:
  - ctx: context.Context
  - identity: Identity (UserID required)
  - token: *oauth2.Token (AccessToken required)
  - active: *catalog.Catalog (optional)

Returns:
  - error: ValidationError on bad input, storage failures otherwise
*/
func (store *Store) Login(ctx context.Context, identity Identity, token *oauth2.Token, active *catalog.Catalog) error {
	if strings.TrimSpace(identity.UserID) == "" {
		return apperr.ValidationError("Login response carried no user id", apperr.FieldError{Field: FieldUserID, Message: "is required"})
	}
	if token == nil || token.AccessToken == "" {
		return apperr.ValidationError("Login response carried no access token", apperr.FieldError{Field: FieldAccessToken, Message: "is required"})
	}

	identity = identity.clone()

	permissions, err := json.Marshal(identity.Permissions)
	if err != nil {
		return apperr.Internal(err)
	}

	serializedCatalog := ""
	if active != nil {
		if err := active.Validate(); err != nil {
			return err
		}
		if serializedCatalog, err = active.Encode(); err != nil {
			return apperr.Internal(err)
		}
	}

	entries := map[string]string{
		constants.KeySchemaVersion: strconv.Itoa(constants.StateSchemaVersion),
		constants.KeyAccessToken:   token.AccessToken,
		constants.KeyRefreshToken:  token.RefreshToken,
		constants.KeyFirstName:     identity.FirstName,
		constants.KeyLastName:      identity.LastName,
		constants.KeyEmail:         identity.Email,
		constants.KeyUserID:        identity.UserID,
		constants.KeyPermissions:   string(permissions),
		constants.KeyPhone:         identity.Phone,
		constants.KeyPhoto:         identity.Photo,
		constants.KeyCatalog:       serializedCatalog,
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.storage.Save(ctx, entries); err != nil {
		return fmt.Errorf("auth_store_login_failed: %w", err)
	}

	stored := *token
	store.identity, store.token, store.catalog = &identity, &stored, active

	store.logger.Info("session_logged_in",
		slog.String("user_id", identity.UserID),
		slog.String("permissions", strings.Join(identity.Permissions, PermissionSeparator)),
	)
	return nil
}

/*
Logout clears every persisted key and resets the store to absent.

Description: Idempotent. Calling it with no session is allowed and leaves the
store absent.
*/
func (store *Store) Logout(ctx context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	wasPresent := store.identity != nil

	if err := store.storage.Delete(ctx, constants.PersistedKeys...); err != nil {
		return fmt.Errorf("auth_store_logout_failed: %w", err)
	}

	store.identity, store.token, store.catalog = nil, nil, nil

	if wasPresent {
		store.logger.Info("session_logged_out")
	}
	return nil
}

/*
UpdateUser shallow-merges patch into the current identity.

Description: Without a session this is a no-op: nothing is written and no
session is created. Supplied identity fields are persisted individually
(photo under photoUser); a supplied catalog replaces the active one wholesale.

Returns:
  - bool: Whether a session was present and the patch applied
  - error: Validation or storage failures
*/
func (store *Store) UpdateUser(ctx context.Context, patch UserPatch) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.identity == nil {
		return false, nil
	}
	if patch.IsEmpty() {
		return true, nil
	}

	merged := store.identity.clone()
	entries := make(map[string]string)

	assign := func(target *string, value *string, key string) {
		if value == nil {
			return
		}
		*target = *value
		entries[key] = *value
	}

	assign(&merged.FirstName, patch.FirstName, constants.KeyFirstName)
	assign(&merged.LastName, patch.LastName, constants.KeyLastName)
	assign(&merged.Email, patch.Email, constants.KeyEmail)
	assign(&merged.Phone, patch.Phone, constants.KeyPhone)
	assign(&merged.Photo, patch.Photo, constants.KeyPhoto)

	if patch.Permissions != nil {
		merged.Permissions = *patch.Permissions
		merged = merged.clone()

		encoded, err := json.Marshal(merged.Permissions)
		if err != nil {
			return true, apperr.Internal(err)
		}
		entries[constants.KeyPermissions] = string(encoded)
	}

	nextCatalog := store.catalog
	if patch.Catalog != nil {
		if err := patch.Catalog.Validate(); err != nil {
			return true, err
		}
		encoded, err := patch.Catalog.Encode()
		if err != nil {
			return true, apperr.Internal(err)
		}
		entries[constants.KeyCatalog] = encoded
		nextCatalog = patch.Catalog
	}

	if err := store.storage.Save(ctx, entries); err != nil {
		return true, fmt.Errorf("auth_store_update_failed: %w", err)
	}

	store.identity, store.catalog = &merged, nextCatalog
	return true, nil
}

// SetToken persists a renewed token pair. It implements upstream.Credentials.
func (store *Store) SetToken(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return apperr.ValidationError("Token is empty", apperr.FieldError{Field: FieldAccessToken, Message: "is required"})
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if store.identity == nil {
		return apperr.NoSession()
	}

	entries := map[string]string{
		constants.KeyAccessToken:  token.AccessToken,
		constants.KeyRefreshToken: token.RefreshToken,
	}
	if err := store.storage.Save(ctx, entries); err != nil {
		return fmt.Errorf("auth_store_token_failed: %w", err)
	}

	stored := *token
	store.token = &stored
	return nil
}

// ReplaceCatalog activates a new catalog snapshot for the current session.
func (store *Store) ReplaceCatalog(ctx context.Context, active *catalog.Catalog) error {
	applied, err := store.UpdateUser(ctx, UserPatch{Catalog: active})
	if err != nil {
		return err
	}
	if !applied {
		return apperr.NoSession()
	}
	return nil
}

// # Reads

// Current returns a copy of the identity and whether a session is present.
func (store *Store) Current() (Identity, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.identity == nil {
		return Identity{}, false
	}
	return store.identity.clone(), true
}

// Catalog returns the active catalog snapshot. Callers must not modify it.
func (store *Store) Catalog() (*catalog.Catalog, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.catalog, store.catalog != nil
}

// Token returns a copy of the bearer credential. It implements upstream.Credentials.
func (store *Store) Token() (*oauth2.Token, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.identity == nil || store.token == nil {
		return nil, false
	}
	copied := *store.token
	return &copied, true
}

// Principal adapts the identity for request-scoped authorization.
func (store *Store) Principal() (*ctxutil.Principal, bool) {
	identity, ok := store.Current()
	if !ok {
		return nil, false
	}
	return &ctxutil.Principal{
		UserID:      identity.UserID,
		Email:       identity.Email,
		Permissions: identity.Permissions,
	}, true
}

// Ping checks the backing storage.
func (store *Store) Ping(ctx context.Context) error {
	return store.storage.Ping(ctx)
}
