package ident

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// IdLength is the length of every generated identifier.
const IdLength = 16

// NewId returns a fixed-length opaque identifier drawn from a 128-bit
// random source. Session identifiers double as bearer-style credentials
// in the reboot flow, so they must not be predictable from prior outputs.
func NewId() string {
	u := uuid.New()
	return hex.EncodeToString(u[:IdLength/2])
}

// Valid reports whether s is a well-formed identifier.
func Valid(s string) bool {
	if len(s) != IdLength {
		return false
	}

	_, err := hex.DecodeString(s)
	return err == nil
}
