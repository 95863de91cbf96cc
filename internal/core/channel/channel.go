// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package channel manages the broadcast channels owned through a messaging session.
*/
package channel

import "strings"

// DefaultSession is the messaging session channels are listed and deleted through.
const DefaultSession = "default"

// Channel is one broadcast channel.
type Channel struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Invite           string `json:"invite"`
	Picture          string `json:"picture"`
	Verified         bool   `json:"verified"`
	Role             string `json:"role"`
	SubscribersCount int    `json:"subscribers_count"`
	Status           string `json:"status"`
}

// Picture is an uploaded channel image.
type Picture struct {
	Name        string
	ContentType string
	Data        []byte
}

// Input is the create/update form. A new Picture wins over PictureURL.
type Input struct {
	Name        string
	Description string
	PictureURL  string
	Picture     *Picture
}

func (input Input) normalize() Input {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.PictureURL = strings.TrimSpace(input.PictureURL)
	if input.Picture != nil && len(input.Picture.Data) == 0 {
		input.Picture = nil
	}
	return input
}

// # Field Identifiers

const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPicture     = "picture"
	FieldPictureURL  = "picture_url"
	FieldSession     = "session"
)
