package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MediaRef is a durable reference to a previously seen media asset.
// Unlike the transient per-message handle, the triple survives a process
// restart and is sufficient to re-send the original asset.
type MediaRef struct {
	ID          string // stable asset identifier (file_unique_id)
	AccessToken string // resend token (file_id)
	Reference   []byte // opaque reference bytes, may be empty
	IsPhoto     bool
}

// Encode serializes the reference triple as id:token:hexref
func (m *MediaRef) Encode() string {
	return m.ID + ":" + m.AccessToken + ":" + hex.EncodeToString(m.Reference)
}

// ParseMediaRef parses an encoded reference triple.
// A missing id or token, or undecodable reference bytes, is an error;
// callers degrade to a text placeholder instead of failing the load.
func ParseMediaRef(s string) (*MediaRef, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("media reference has %d parts, want 3", len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("media reference is missing id or access token")
	}
	ref, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("decode media reference bytes: %w", err)
	}
	return &MediaRef{ID: parts[0], AccessToken: parts[1], Reference: ref}, nil
}

// Clone returns a deep copy
func (m *MediaRef) Clone() *MediaRef {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Reference = append([]byte(nil), m.Reference...)
	return &cp
}
