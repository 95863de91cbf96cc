// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package session manages messaging sessions: the paired connections the
backend keeps open on behalf of staff.

# Core Responsibility

  - Listing: The sessions table is fetched in full on mount.
  - Lifecycle: start, restart, stop and logout actions, addressed by name.
  - Pairing: The QR value shown while a session waits for a scan.
  - Live status: Push events patch the status of existing rows by name.
*/
package session

import (
	"encoding/json"
	"strings"
)

// # Session Enums

// Action is a lifecycle command sent to a messaging session.
type Action string

const (
	ActionStart   Action = "start"
	ActionRestart Action = "restart"
	ActionStop    Action = "stop"
	ActionLogout  Action = "logout"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionStart, ActionRestart, ActionStop, ActionLogout:
		return true
	}
	return false
}

// StatusScanQRCode is the code of a session waiting to be paired.
const StatusScanQRCode = "scan_qr_code"

// # Core Entities

// Status is the backend-reported state of a session.
type Status struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Session is one row of the sessions table.
type Session struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	User       json.RawMessage `json:"user,omitempty"`
	Status     Status          `json:"status"`
	MeID       string          `json:"me_id"`
	MePushName string          `json:"me_push_name"`
	Config     json.RawMessage `json:"config,omitempty"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

// AwaitingScan reports whether the session is showing a pairing code.
func (s Session) AwaitingScan() bool {
	return s.Status.Code == StatusScanQRCode
}

// Label derives the display name of a status code.
func Label(code string) string {
	return strings.ReplaceAll(code, "_", " ")
}

// # Inputs

// Input is the create/update form.
type Input struct {
	Name          string   `json:"name"`
	WebhookURL    string   `json:"webhook_url"`
	WebhookEvents []string `json:"webhook_events"`
}

// normalize trims the name and drops blank webhook events.
func (input Input) normalize() Input {
	input.Name = strings.TrimSpace(input.Name)
	input.WebhookURL = strings.TrimSpace(input.WebhookURL)

	events := make([]string, 0, len(input.WebhookEvents))
	for _, event := range input.WebhookEvents {
		if event = strings.TrimSpace(event); event != "" {
			events = append(events, event)
		}
	}
	input.WebhookEvents = events
	return input
}

// # Field Identifiers

const (
	FieldID         = "id"
	FieldName       = "name"
	FieldAction     = "action"
	FieldWebhookURL = "webhook_url"
)
