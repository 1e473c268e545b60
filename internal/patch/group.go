package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/store"
)

// Group applies a dialect specific group membership patch.
func (m *Merger) Group(d scim.Dialect, id string, doc map[string]json.RawMessage) (*models.Group, error) {
	var (
		ops []store.MemberOp
		err error
	)
	if d == scim.V1 {
		ops, err = memberOpsFromLegacy(doc)
	} else {
		ops, err = memberOpsFromOps(doc)
	}
	if err != nil {
		return nil, err
	}
	return m.store.ApplyMemberOps(id, ops)
}

// memberOpsFromLegacy converts the flat members list. Operation names
// are matched case-insensitively and default to add; unrecognized ones
// are dropped without failing the patch.
func memberOpsFromLegacy(doc map[string]json.RawMessage) ([]store.MemberOp, error) {
	raw, ok := doc["members"]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%w: no member operations provided", ErrInvalidPatch)
	}
	var entries []MemberOperation
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: malformed members list", ErrInvalidPatch)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no member operations provided", ErrInvalidPatch)
	}
	ops := make([]store.MemberOp, 0, len(entries))
	for _, e := range entries {
		switch strings.ToLower(e.Operation) {
		case "", "add":
			ops = append(ops, store.MemberOp{MemberID: e.Value, Kind: store.MemberAdd})
		case "delete":
			ops = append(ops, store.MemberOp{MemberID: e.Value, Kind: store.MemberRemove})
		}
	}
	return ops, nil
}

// memberOpsFromOps converts a current dialect Operations array. Only
// ops targeting the members path survive; if filtering leaves nothing,
// the whole patch is rejected.
func memberOpsFromOps(doc map[string]json.RawMessage) ([]store.MemberOp, error) {
	rawOps, ok := doc["Operations"]
	if !ok || isNull(rawOps) {
		return nil, fmt.Errorf("%w: no operations provided", ErrInvalidPatch)
	}
	var entries []Operation
	if err := json.Unmarshal(rawOps, &entries); err != nil {
		return nil, fmt.Errorf("%w: malformed Operations array", ErrInvalidPatch)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no operations provided", ErrInvalidPatch)
	}
	var ops []store.MemberOp
	for _, op := range entries {
		if op.Path != "members" {
			continue
		}
		var kind store.MemberOpKind
		switch op.Op {
		case "add":
			kind = store.MemberAdd
		case "remove":
			kind = store.MemberRemove
		default:
			continue
		}
		for _, ref := range memberRefs(op.Value) {
			ops = append(ops, store.MemberOp{MemberID: ref, Kind: kind})
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no valid member operations found", ErrInvalidPatch)
	}
	return ops, nil
}

// memberRefs extracts member ids from an op value that is either one
// reference object or a list of them. Scalars and a bare empty object
// contribute nothing; an object without a usable value inside a list
// still yields an op with an empty id, which the store then skips.
func memberRefs(raw json.RawMessage) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return nil
	}
	var elems []json.RawMessage
	if trimmed[0] == '[' {
		if json.Unmarshal(trimmed, &elems) != nil {
			return nil
		}
	} else {
		var obj map[string]json.RawMessage
		if json.Unmarshal(trimmed, &obj) != nil || len(obj) == 0 {
			return nil
		}
		elems = []json.RawMessage{trimmed}
	}
	refs := make([]string, 0, len(elems))
	for _, el := range elems {
		var obj map[string]json.RawMessage
		if json.Unmarshal(el, &obj) != nil {
			continue
		}
		var id string
		if v, ok := obj["value"]; ok && !isNull(v) {
			// non-string values leave the id empty
			_ = json.Unmarshal(v, &id)
		}
		refs = append(refs, id)
	}
	return refs
}
