// Package patch normalizes the two dialect patch grammars into the
// store's mutation primitives. The legacy dialect patches users with a
// flat attribute map and groups with a members operation list; the
// current dialect uses an Operations array for both. Everything is
// reduced to models.UserPatch or store member ops before any state is
// touched.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/scimulator/scimulator/internal/store"
)

// ErrInvalidPatch flags a payload with nothing actionable left after
// dialect specific filtering. Wrapped variants carry the reason.
var ErrInvalidPatch = errors.New("invalid patch")

// Operation is one entry of a current dialect Operations array.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// MemberOperation is one entry of a legacy group patch members list.
// An absent operation defaults to add.
type MemberOperation struct {
	Value     string `json:"value"`
	Operation string `json:"operation"`
}

// Merger applies dialect patch documents through the store.
type Merger struct {
	store *store.Store
}

func NewMerger(st *store.Store) *Merger {
	return &Merger{store: st}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
