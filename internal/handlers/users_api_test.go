package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/scimulator/scimulator/internal/config"
	"github.com/scimulator/scimulator/internal/handlers"
	"github.com/scimulator/scimulator/internal/logging"
	"github.com/scimulator/scimulator/internal/policy"
	"github.com/scimulator/scimulator/internal/routes"
	"github.com/scimulator/scimulator/internal/scim"
	"github.com/scimulator/scimulator/internal/services"
	"github.com/scimulator/scimulator/internal/store"
)

// newTestServer builds the full route table over a fresh store. The
// zero config leaves every auth scheme unset, so the server is open,
// and disables the rate limiter.
func newTestServer(t *testing.T, profile string) (*fiber.App, *policy.Resolver) {
	t.Helper()
	res, err := policy.NewResolver(profile, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	svc := services.NewDirectoryService(store.New(), res)

	app := fiber.New()
	mem := logging.NewMemoryHandler(16, slog.LevelInfo)
	routes.Setup(app, &config.Config{CORSOrigins: "*"},
		handlers.NewUsersHandler(svc, scim.V1),
		handlers.NewUsersHandler(svc, scim.V2),
		handlers.NewGroupsHandler(svc, scim.V1),
		handlers.NewGroupsHandler(svc, scim.V2),
		handlers.NewAdminHandler(svc, mem),
		handlers.NewHealthHandler(svc),
	)
	return app, res
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func doRaw(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return data
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d", resp.StatusCode, want)
	}
}

// sampleUser carries the full legacy attribute set.
func sampleUser() map[string]any {
	return map[string]any{
		"userName":          "jdoe",
		"displayName":       "John Doe",
		"nickName":          "Johnny",
		"profileUrl":        "https://example.com/jdoe",
		"title":             "Software Engineer",
		"userType":          "Employee",
		"preferredLanguage": "en-US",
		"locale":            "en-US",
		"timezone":          "America/New_York",
		"password":          "s3cret!",
		"emails":            []any{map[string]any{"value": "jdoe@example.com", "type": "work", "primary": true}},
		"phoneNumbers":      []any{map[string]any{"value": "+1-555-0100", "type": "work", "primary": true}},
		"ims":               []any{map[string]any{"value": "jdoe_im", "type": "xmpp"}},
		"addresses": []any{map[string]any{
			"streetAddress": "123 Main St",
			"locality":      "Springfield",
			"region":        "IL",
			"postalCode":    "62701",
			"country":       "US",
			"type":          "work",
			"primary":       true,
		}},
		"entitlements":     []any{map[string]any{"value": "full-access", "type": "standard"}},
		"roles":            []any{map[string]any{"value": "developer", "type": "primary", "primary": true}},
		"x509Certificates": []any{map[string]any{"value": "MIID...", "type": "pem"}},
		"active":           true,
	}
}

func createUser(t *testing.T, app *fiber.App, prefix string, body map[string]any) string {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, prefix+"/Users", body)
	wantStatus(t, resp, fiber.StatusCreated)
	data := decode(t, resp)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("create user returned no id: %v", data)
	}
	return id
}

func schemasContain(data map[string]any, urn string) bool {
	schemas, _ := data["schemas"].([]any)
	for _, s := range schemas {
		if s == urn {
			return true
		}
	}
	return false
}

func TestListUsersEmpty(t *testing.T) {
	app, _ := newTestServer(t, "")

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v1/Users", nil)
	wantStatus(t, resp, fiber.StatusOK)
	data := decode(t, resp)
	if data["totalResults"] != float64(0) {
		t.Errorf("totalResults = %v, want 0", data["totalResults"])
	}
	if resources, ok := data["Resources"].([]any); !ok || len(resources) != 0 {
		t.Errorf("Resources = %v, want []", data["Resources"])
	}
	if !schemasContain(data, scim.SchemaCoreV1) {
		t.Errorf("schemas = %v", data["schemas"])
	}
}

func TestCreateUser(t *testing.T) {
	app, _ := newTestServer(t, "")

	resp := doJSON(t, app, fiber.MethodPost, "/scim/v1/Users", sampleUser())
	wantStatus(t, resp, fiber.StatusCreated)
	data := decode(t, resp)

	if data["userName"] != "jdoe" || data["displayName"] != "John Doe" {
		t.Errorf("userName/displayName = %v/%v", data["userName"], data["displayName"])
	}
	if data["id"] == nil || data["id"] == "" {
		t.Error("response must carry the generated id")
	}
	if !schemasContain(data, scim.SchemaCoreV1) {
		t.Errorf("schemas = %v", data["schemas"])
	}
	if _, ok := data["password"]; ok {
		t.Error("password must never be serialized")
	}
	if groups, ok := data["groups"].([]any); !ok || len(groups) != 0 {
		t.Errorf("groups = %v, want []", data["groups"])
	}
	if data["active"] != true {
		t.Errorf("active = %v", data["active"])
	}
}

func TestCreateDuplicateUser(t *testing.T) {
	app, _ := newTestServer(t, "")
	createUser(t, app, "/scim/v1", sampleUser())

	resp := doJSON(t, app, fiber.MethodPost, "/scim/v1/Users", sampleUser())
	wantStatus(t, resp, fiber.StatusConflict)
	data := decode(t, resp)

	errs, _ := data["Errors"].([]any)
	if len(errs) != 1 {
		t.Fatalf("Errors = %v", data["Errors"])
	}
	detail := errs[0].(map[string]any)
	if detail["code"] != float64(409) {
		t.Errorf("code = %v, want 409", detail["code"])
	}
	if !strings.Contains(detail["description"].(string), "already exists") {
		t.Errorf("description = %v", detail["description"])
	}
}

func TestGetUser(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v1", sampleUser())

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v1/Users/"+id, nil)
	wantStatus(t, resp, fiber.StatusOK)
	data := decode(t, resp)
	if data["userName"] != "jdoe" {
		t.Errorf("userName = %v", data["userName"])
	}

	loc := data["meta"].(map[string]any)["location"].(string)
	if !strings.HasSuffix(loc, "/scim/v1/Users/"+id) {
		t.Errorf("meta.location = %q", loc)
	}
}

func TestGetUserNotFound(t *testing.T) {
	app, _ := newTestServer(t, "")

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v1/Users/nonexistent", nil)
	wantStatus(t, resp, fiber.StatusNotFound)
	data := decode(t, resp)
	if _, ok := data["Errors"]; !ok {
		t.Errorf("v1 error envelope missing: %v", data)
	}
}

func TestGetUserNotFoundV2Envelope(t *testing.T) {
	app, _ := newTestServer(t, "")

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v2/Users/nonexistent", nil)
	wantStatus(t, resp, fiber.StatusNotFound)
	data := decode(t, resp)
	if !schemasContain(data, scim.SchemaErrorV2) {
		t.Errorf("schemas = %v", data["schemas"])
	}
	if data["status"] != float64(404) {
		t.Errorf("status = %v, want 404", data["status"])
	}
	if !strings.Contains(data["detail"].(string), "not found") {
		t.Errorf("detail = %v", data["detail"])
	}
}

func TestPutUserReplacesAndPreserves(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v1", sampleUser())

	resp := doJSON(t, app, fiber.MethodPut, "/scim/v1/Users/"+id, map[string]any{
		"userName":    "jdoe",
		"displayName": "Jane Doe",
	})
	wantStatus(t, resp, fiber.StatusOK)
	data := decode(t, resp)

	if data["displayName"] != "Jane Doe" {
		t.Errorf("displayName = %v", data["displayName"])
	}
	// Attributes absent from the PUT payload keep their stored values.
	if data["title"] != "Software Engineer" {
		t.Errorf("title = %v, want preserved value", data["title"])
	}
	if data["active"] != true {
		t.Errorf("active = %v", data["active"])
	}
}

func TestPutUserMissing(t *testing.T) {
	app, _ := newTestServer(t, "")

	resp := doJSON(t, app, fiber.MethodPut, "/scim/v1/Users/ghost", map[string]any{"userName": "x"})
	wantStatus(t, resp, fiber.StatusNotFound)
}

func TestPutUserRequiresUserName(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v1", sampleUser())

	resp := doJSON(t, app, fiber.MethodPut, "/scim/v1/Users/"+id, map[string]any{
		"displayName": "No Name",
	})
	wantStatus(t, resp, fiber.StatusBadRequest)
}

func TestDeleteUser(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v1", sampleUser())

	resp := doJSON(t, app, fiber.MethodDelete, "/scim/v1/Users/"+id, nil)
	wantStatus(t, resp, fiber.StatusNoContent)

	resp = doJSON(t, app, fiber.MethodGet, "/scim/v1/Users/"+id, nil)
	wantStatus(t, resp, fiber.StatusNotFound)
}

func TestListUsersPagination(t *testing.T) {
	app, _ := newTestServer(t, "")
	for i := 0; i < 5; i++ {
		createUser(t, app, "/scim/v1", map[string]any{"userName": fmt.Sprintf("user%d", i)})
	}

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v1/Users?startIndex=1&count=2", nil)
	data := decode(t, resp)
	if data["totalResults"] != float64(5) {
		t.Errorf("totalResults = %v, want 5", data["totalResults"])
	}
	if data["itemsPerPage"] != float64(2) {
		t.Errorf("itemsPerPage = %v, want 2", data["itemsPerPage"])
	}
	if resources := data["Resources"].([]any); len(resources) != 2 {
		t.Errorf("len(Resources) = %d, want 2", len(resources))
	}
}

func TestListUsersCountZero(t *testing.T) {
	app, _ := newTestServer(t, "")
	createUser(t, app, "/scim/v1", map[string]any{"userName": "only"})

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v1/Users?count=0", nil)
	data := decode(t, resp)
	if data["totalResults"] != float64(1) {
		t.Errorf("totalResults = %v, want 1", data["totalResults"])
	}
	if resources := data["Resources"].([]any); len(resources) != 0 {
		t.Errorf("Resources = %v, want empty page", resources)
	}
}

func TestFilterUsersByUserName(t *testing.T) {
	app, _ := newTestServer(t, "")
	createUser(t, app, "/scim/v1", map[string]any{"userName": "alice"})
	createUser(t, app, "/scim/v1", map[string]any{"userName": "bob"})

	path := "/scim/v1/Users?filter=" + url.QueryEscape(`userName eq "alice"`)
	resp := doJSON(t, app, fiber.MethodGet, path, nil)
	data := decode(t, resp)
	if data["totalResults"] != float64(1) {
		t.Fatalf("totalResults = %v, want 1", data["totalResults"])
	}
	first := data["Resources"].([]any)[0].(map[string]any)
	if first["userName"] != "alice" {
		t.Errorf("userName = %v", first["userName"])
	}
}

func TestUserV2Schemas(t *testing.T) {
	app, _ := newTestServer(t, "")

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v2/Users", nil)
	data := decode(t, resp)
	if !schemasContain(data, scim.SchemaListV2) {
		t.Errorf("list schemas = %v", data["schemas"])
	}

	resp = doJSON(t, app, fiber.MethodPost, "/scim/v2/Users", sampleUser())
	wantStatus(t, resp, fiber.StatusCreated)
	data = decode(t, resp)
	if !schemasContain(data, scim.SchemaUserV2) {
		t.Errorf("resource schemas = %v", data["schemas"])
	}
}

func TestUserResponseOmitsAbsentOptionals(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v2", map[string]any{"userName": "bare"})

	resp := doJSON(t, app, fiber.MethodGet, "/scim/v2/Users/"+id, nil)
	data := decode(t, resp)

	for _, key := range []string{"displayName", "name", "title", "emails", "externalId"} {
		if _, ok := data[key]; ok {
			t.Errorf("%s must be absent, got %v", key, data[key])
		}
	}
	if data["active"] != true {
		t.Errorf("active = %v, must always be present", data["active"])
	}
	if _, ok := data["groups"]; !ok {
		t.Error("derived groups list must always be present")
	}
}

func TestPatchUserLegacyFlatMap(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v1", sampleUser())

	resp := doRaw(t, app, fiber.MethodPatch, "/scim/v1/Users/"+id, `{"title": "Principal Engineer"}`)
	wantStatus(t, resp, fiber.StatusOK)
	data := decode(t, resp)
	if data["title"] != "Principal Engineer" {
		t.Errorf("title = %v", data["title"])
	}

	resp = doRaw(t, app, fiber.MethodPatch, "/scim/v1/Users/"+id, `{"title": null}`)
	wantStatus(t, resp, fiber.StatusOK)
	data = decode(t, resp)
	if _, ok := data["title"]; ok {
		t.Errorf("title must be cleared, got %v", data["title"])
	}
}

func TestPatchUserLegacyEmptyRejected(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v1", sampleUser())

	resp := doRaw(t, app, fiber.MethodPatch, "/scim/v1/Users/"+id, `{}`)
	wantStatus(t, resp, fiber.StatusBadRequest)
}

func TestPatchUserV2Operations(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v2", sampleUser())

	body := `{
		"schemas": ["urn:ietf:params:scim:api:messages:2.0:PatchOp"],
		"Operations": [
			{"op": "replace", "path": "title", "value": "Staff Engineer"},
			{"op": "remove", "path": "nickName"}
		]
	}`
	resp := doRaw(t, app, fiber.MethodPatch, "/scim/v2/Users/"+id, body)
	wantStatus(t, resp, fiber.StatusOK)
	data := decode(t, resp)
	if data["title"] != "Staff Engineer" {
		t.Errorf("title = %v", data["title"])
	}
	if _, ok := data["nickName"]; ok {
		t.Errorf("nickName must be removed, got %v", data["nickName"])
	}
}

func TestPatchUserV2RequiresOperations(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v2", sampleUser())

	resp := doRaw(t, app, fiber.MethodPatch, "/scim/v2/Users/"+id, `{"schemas": []}`)
	wantStatus(t, resp, fiber.StatusBadRequest)
}

func TestPatchUserMalformedBody(t *testing.T) {
	app, _ := newTestServer(t, "")
	id := createUser(t, app, "/scim/v1", sampleUser())

	resp := doRaw(t, app, fiber.MethodPatch, "/scim/v1/Users/"+id, `{not json`)
	wantStatus(t, resp, fiber.StatusBadRequest)
}

func TestUserEnterpriseKeepsOriginURN(t *testing.T) {
	app, _ := newTestServer(t, "")

	v2Body := map[string]any{
		"userName": "ent2",
		"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User": map[string]any{
			"employeeNumber": "E-100",
			"department":     "Platform",
			"manager":        map[string]any{"value": "mgr-1", "displayName": "Boss"},
		},
	}
	id := createUser(t, app, "/scim/v2", v2Body)
	resp := doJSON(t, app, fiber.MethodGet, "/scim/v2/Users/"+id, nil)
	data := decode(t, resp)

	ext, ok := data[scim.EnterpriseURNV2].(map[string]any)
	if !ok {
		t.Fatalf("v2 enterprise extension missing: %v", data)
	}
	if ext["employeeNumber"] != "E-100" {
		t.Errorf("employeeNumber = %v", ext["employeeNumber"])
	}
	mgr := ext["manager"].(map[string]any)
	if mgr["value"] != "mgr-1" {
		t.Errorf("manager = %v, want value key in the current shape", mgr)
	}
	if _, ok := data[scim.EnterpriseURNV1]; ok {
		t.Error("legacy URN must not appear on a current-dialect user")
	}
}

func TestUserEnterpriseLegacyManagerShape(t *testing.T) {
	app, _ := newTestServer(t, "")

	v1Body := map[string]any{
		"userName": "ent1",
		"urn:scim:schemas:extension:enterprise:1.0": map[string]any{
			"employeeNumber": "E-200",
			"manager":        map[string]any{"managerId": "mgr-9", "displayName": "Chief"},
		},
	}
	id := createUser(t, app, "/scim/v1", v1Body)
	resp := doJSON(t, app, fiber.MethodGet, "/scim/v1/Users/"+id, nil)
	data := decode(t, resp)

	ext, ok := data[scim.EnterpriseURNV1].(map[string]any)
	if !ok {
		t.Fatalf("legacy enterprise extension missing: %v", data)
	}
	mgr := ext["manager"].(map[string]any)
	if mgr["managerId"] != "mgr-9" {
		t.Errorf("manager = %v, want managerId key in the legacy shape", mgr)
	}
}

func TestCreateUserMissingUserName(t *testing.T) {
	app, _ := newTestServer(t, "")

	resp := doJSON(t, app, fiber.MethodPost, "/scim/v1/Users", map[string]any{"displayName": "No Name"})
	wantStatus(t, resp, fiber.StatusBadRequest)
}
