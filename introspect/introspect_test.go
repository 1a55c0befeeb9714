package introspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/locator/di"
	"github.com/kbukum/locator/introspect"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
)

type Weapon interface{ Hit(string) string }

type Katana struct{}

func (*Katana) Hit(target string) string { return "Cut " + target }

type Samurai struct {
	Weapon Weapon `inject:""`
}

func newContainer(t *testing.T, withWeapon bool) *di.Container {
	t.Helper()
	c := di.New(
		di.WithLogger(logger.NewNop()),
		di.WithMetrics(observability.NewNopRegistryMetrics()),
	)
	if withWeapon {
		if err := di.Register[Weapon](c, func() (Weapon, error) { return &Katana{}, nil }); err != nil {
			t.Fatal(err)
		}
	}
	if err := di.RegisterSingleConcrete[*Samurai](c); err != nil {
		t.Fatal(err)
	}
	return c
}

func newRouter(c *di.Container) http.Handler {
	return introspect.NewRouter(c,
		introspect.WithServiceName("dojo"),
		introspect.WithVersion("1.0.0"),
		introspect.WithLogger(logger.NewNop()),
	)
}

func do(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return rr, body
}

func TestRegistrations(t *testing.T) {
	c := newContainer(t, true)
	rr, body := do(t, newRouter(c), http.MethodGet, introspect.PathRegistrations)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body["container_id"] != c.ID() {
		t.Errorf("expected container id %s, got %v", c.ID(), body["container_id"])
	}
	if body["state"] != "configuring" {
		t.Errorf("listing must not lock the container, got state %v", body["state"])
	}
	regs, ok := body["registrations"].([]any)
	if !ok || len(regs) != 2 {
		t.Fatalf("expected 2 registrations, got %v", body["registrations"])
	}
	first := regs[0].(map[string]any)
	if first["service"] != "introspect_test.Weapon" || first["lifestyle"] != "transient" {
		t.Errorf("unexpected first registration %v", first)
	}
}

func TestHealthLifecycle(t *testing.T) {
	c := newContainer(t, true)
	h := newRouter(c)

	rr, body := do(t, h, http.MethodGet, introspect.PathHealth)
	if rr.Code != http.StatusOK || body["status"] != "degraded" {
		t.Fatalf("expected degraded while configuring, got %d %v", rr.Code, body["status"])
	}

	rr, body = do(t, h, http.MethodPost, introspect.PathValidate)
	if rr.Code != http.StatusOK || body["status"] != "valid" {
		t.Fatalf("expected valid, got %d %v", rr.Code, body)
	}

	rr, body = do(t, h, http.MethodGet, introspect.PathHealth)
	if rr.Code != http.StatusOK || body["status"] != "up" {
		t.Fatalf("expected up after validation, got %d %v", rr.Code, body["status"])
	}
}

func TestValidateFailure(t *testing.T) {
	c := newContainer(t, false)
	h := newRouter(c)

	rr, body := do(t, h, http.MethodPost, introspect.PathValidate)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	errBody := body["error"].(map[string]any)
	if errBody["code"] != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %v", errBody["code"])
	}
	details := errBody["details"].(map[string]any)
	if details["failures"] != float64(1) {
		t.Errorf("expected 1 failure, got %v", details["failures"])
	}
	if list, ok := details["errors"].([]any); !ok || len(list) != 1 {
		t.Errorf("expected one failure message, got %v", details["errors"])
	}

	rr, body = do(t, h, http.MethodGet, introspect.PathHealth)
	if rr.Code != http.StatusServiceUnavailable || body["status"] != "down" {
		t.Fatalf("expected down after failed validation, got %d %v", rr.Code, body["status"])
	}
}
