package patch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/scimulator/scimulator/internal/models"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/store"
)

func newGroupFixture(t *testing.T) (*Merger, *store.Store, *models.User, *models.Group) {
	t.Helper()
	st := store.New()
	u, err := st.CreateUser(&models.User{UserName: "alice", Active: true})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	g, err := st.CreateGroup(&models.Group{DisplayName: "Eng"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	return NewMerger(st), st, u, g
}

func TestLegacyGroupPatchAddThenDelete(t *testing.T) {
	m, st, u, g := newGroupFixture(t)

	got, err := m.Group(scim.V1, g.ID, doc(t, fmt.Sprintf(
		`{"members": [{"value": %q, "operation": "add"}]}`, u.ID)))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].Value != u.ID {
		t.Fatalf("members = %+v", got.Members)
	}
	if got.Members[0].Display == nil || *got.Members[0].Display != "alice" {
		t.Errorf("display = %v, want resolved userName", got.Members[0].Display)
	}
	if refs := st.GroupsForUser(u.ID); len(refs) != 1 || refs[0].Value != g.ID {
		t.Errorf("derived groups = %+v", refs)
	}

	got, err = m.Group(scim.V1, g.ID, doc(t, fmt.Sprintf(
		`{"members": [{"value": %q, "operation": "delete"}]}`, u.ID)))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(got.Members) != 0 {
		t.Fatalf("members = %+v, want empty", got.Members)
	}
	if refs := st.GroupsForUser(u.ID); len(refs) != 0 {
		t.Errorf("derived groups = %+v, want empty", refs)
	}
}

func TestLegacyGroupPatchDefaultsToAdd(t *testing.T) {
	m, _, u, g := newGroupFixture(t)

	got, err := m.Group(scim.V1, g.ID, doc(t, fmt.Sprintf(
		`{"members": [{"value": %q}]}`, u.ID)))
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(got.Members) != 1 {
		t.Errorf("members = %+v, want the default add applied", got.Members)
	}
}

func TestLegacyGroupPatchOperationCaseInsensitive(t *testing.T) {
	m, _, u, g := newGroupFixture(t)

	if _, err := m.Group(scim.V1, g.ID, doc(t, fmt.Sprintf(
		`{"members": [{"value": %q, "operation": "ADD"}]}`, u.ID))); err != nil {
		t.Fatalf("ADD: %v", err)
	}
	got, err := m.Group(scim.V1, g.ID, doc(t, fmt.Sprintf(
		`{"members": [{"value": %q, "operation": "Delete"}]}`, u.ID)))
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("members = %+v, want empty", got.Members)
	}
}

func TestLegacyGroupPatchUnknownOperationIsNoOp(t *testing.T) {
	m, _, u, g := newGroupFixture(t)

	got, err := m.Group(scim.V1, g.ID, doc(t, fmt.Sprintf(
		`{"members": [{"value": %q, "operation": "replace"}]}`, u.ID)))
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("members = %+v, unknown operations must not mutate", got.Members)
	}
	if got.Meta.LastModified.Before(g.Meta.LastModified) {
		t.Error("the patch still counts as a write and bumps lastModified")
	}
}

func TestLegacyGroupPatchRequiresMembers(t *testing.T) {
	m, _, _, g := newGroupFixture(t)

	for _, raw := range []string{`{}`, `{"members": []}`, `{"members": null}`} {
		if _, err := m.Group(scim.V1, g.ID, doc(t, raw)); !errors.Is(err, ErrInvalidPatch) {
			t.Errorf("doc %s: err = %v, want ErrInvalidPatch", raw, err)
		}
	}
}

func TestLegacyGroupPatchValidatesBeforeLookup(t *testing.T) {
	m, _, _, _ := newGroupFixture(t)

	// An empty patch fails as invalid even when the group is missing.
	if _, err := m.Group(scim.V1, "nope", doc(t, `{"members": []}`)); !errors.Is(err, ErrInvalidPatch) {
		t.Errorf("err = %v, want ErrInvalidPatch", err)
	}
	if _, err := m.Group(scim.V1, "nope", doc(t, `{"members": [{"value": "x"}]}`)); !errors.Is(err, store.ErrGroupNotFound) {
		t.Errorf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestOpsGroupPatchSingleObjectValue(t *testing.T) {
	m, _, u, g := newGroupFixture(t)

	got, err := m.Group(scim.V2, g.ID, doc(t, fmt.Sprintf(`{
		"Operations": [{"op": "add", "path": "members", "value": {"value": %q}}]
	}`, u.ID)))
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].Value != u.ID {
		t.Errorf("members = %+v", got.Members)
	}
}

func TestOpsGroupPatchListValue(t *testing.T) {
	m, st, u, g := newGroupFixture(t)
	bob, err := st.CreateUser(&models.User{UserName: "bob", Active: true})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := m.Group(scim.V2, g.ID, doc(t, fmt.Sprintf(`{
		"Operations": [{"op": "add", "path": "members", "value": [{"value": %q}, {"value": %q}]}]
	}`, u.ID, bob.ID)))
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(got.Members) != 2 {
		t.Errorf("members = %+v, want both added", got.Members)
	}
}

func TestOpsGroupPatchRemove(t *testing.T) {
	m, _, u, g := newGroupFixture(t)

	if _, err := m.Group(scim.V2, g.ID, doc(t, fmt.Sprintf(`{
		"Operations": [{"op": "add", "path": "members", "value": [{"value": %q}]}]
	}`, u.ID))); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := m.Group(scim.V2, g.ID, doc(t, fmt.Sprintf(`{
		"Operations": [{"op": "remove", "path": "members", "value": [{"value": %q}]}]
	}`, u.ID)))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("members = %+v, want empty", got.Members)
	}
}

func TestOpsGroupPatchFiltersPathsAndOps(t *testing.T) {
	m, _, u, g := newGroupFixture(t)

	docs := []string{
		`{"Operations": [{"op": "replace", "path": "members", "value": [{"value": "x"}]}]}`,
		`{"Operations": [{"op": "add", "path": "displayName", "value": "X"}]}`,
		`{"Operations": [{"op": "add", "path": "members", "value": {}}]}`,
		`{"Operations": [{"op": "add", "path": "members", "value": "` + u.ID + `"}]}`,
	}
	for _, raw := range docs {
		if _, err := m.Group(scim.V2, g.ID, doc(t, raw)); !errors.Is(err, ErrInvalidPatch) {
			t.Errorf("doc %s: err = %v, want ErrInvalidPatch", raw, err)
		}
	}
}

func TestOpsGroupPatchRequiresOperations(t *testing.T) {
	m, _, _, g := newGroupFixture(t)

	for _, raw := range []string{`{}`, `{"Operations": []}`, `{"Operations": null}`} {
		if _, err := m.Group(scim.V2, g.ID, doc(t, raw)); !errors.Is(err, ErrInvalidPatch) {
			t.Errorf("doc %s: err = %v, want ErrInvalidPatch", raw, err)
		}
	}
}

func TestOpsGroupPatchEmptyRefInListIsSkippedByStore(t *testing.T) {
	m, _, _, g := newGroupFixture(t)

	got, err := m.Group(scim.V2, g.ID, doc(t, `{
		"Operations": [{"op": "add", "path": "members", "value": [{"display": "label only"}]}]
	}`))
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(got.Members) != 0 {
		t.Errorf("members = %+v, an op without a member id must not add anything", got.Members)
	}
}
