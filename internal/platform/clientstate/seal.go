// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package clientstate

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	nonceSize = 24
	keySize   = 32

	// sealSalt binds derived keys to this use; changing it invalidates every sealed file.
	sealSalt = "whatschannel-console/state/v1"
)

// sealer encrypts individual values with NaCl secretbox.
type sealer struct {
	key [keySize]byte
}

// newSealer derives a per-namespace key from the operator secret with HKDF-SHA256.
func newSealer(secret, namespace string) (*sealer, error) {
	if secret == "" {
		return nil, errors.New("clientstate: empty sealing secret")
	}

	reader := hkdf.New(sha256.New, []byte(secret), []byte(sealSalt), []byte(namespace))

	s := &sealer{}
	if _, err := io.ReadFull(reader, s.key[:]); err != nil {
		return nil, fmt.Errorf("clientstate_key_derivation_failed: %w", err)
	}
	return s, nil
}

// seal returns base64(nonce || box).
func (s *sealer) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("clientstate_nonce_failed: %w", err)
	}

	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

// open reverses [sealer.seal]. Any failure means the value is unusable.
func (s *sealer) open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrCorrupted
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrCorrupted
	}
	return string(plain), nil
}
