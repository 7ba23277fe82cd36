package routing_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-discovery/framework/container"
	"github.com/km-arc/go-discovery/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func quiet() routing.Option { return routing.WithLogger(zap.NewNop()) }

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New(quiet())
	r.Get("/records", okHandler)
	r.Post("/records", okHandler)
	r.Put("/records/{id}", okHandler)
	r.Patch("/records/{id}", okHandler)
	r.Delete("/records/{id}", okHandler)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/records"},
		{http.MethodPost, "/records"},
		{http.MethodPut, "/records/1"},
		{http.MethodPatch, "/records/1"},
		{http.MethodDelete, "/records/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
				t.Errorf("%s %s: got %d want 200", tt.method, tt.path, rr.Code)
			}
		})
	}
}

func TestRouter_Any(t *testing.T) {
	r := routing.New(quiet())
	r.Any("/ping", okHandler)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		rr := do(t, r, method, "/ping")
		if rr.Code != http.StatusOK {
			t.Errorf("ANY %s /ping: got %d want 200", method, rr.Code)
		}
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New(quiet())
	rr := do(t, r, http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestRouter_Param(t *testing.T) {
	r := routing.New(quiet())
	r.Get("/records/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/records/42")
	if rr.Body.String() != "42" {
		t.Errorf("got body %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New(quiet())
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/records", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/records"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/records: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/records"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /records: expected 404, got %d", rr.Code)
	}
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New(quiet())
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/protected")
	if !called {
		t.Error("expected middleware to be called")
	}
}

// ── Service routes ───────────────────────────────────────────────────────────

func TestRouter_Service(t *testing.T) {
	c := container.New()
	builds := 0
	c.Singleton("controller.health", func(*container.Container) (any, error) {
		builds++
		return http.HandlerFunc(okHandler), nil
	})

	r := routing.New(quiet(), routing.WithLocator(c))
	r.Prefix("/api", func(api *routing.Router) {
		api.Service("/health", "controller.health")
	})

	if builds != 0 {
		t.Fatalf("handler built before first request")
	}
	for _i := 0; _i < 2; _i++ {
		if rr := do(t, r, http.MethodGet, "/api/health"); rr.Code != http.StatusOK {
			t.Errorf("GET /api/health: got %d want 200", rr.Code)
		}
	}
	if builds != 1 {
		t.Errorf("builds: got %d want 1", builds)
	}
}

func TestRouter_Service_Failures(t *testing.T) {
	c := container.New()
	c.Instance("not.a.handler", 42)
	c.Bind("broken", func(*container.Container) (any, error) {
		return nil, errors.New("boom")
	})

	tests := []struct {
		name    string
		service string
		kind    string
	}{
		{"missing", "missing", "service_not_found"},
		{"factory error", "broken", "internal"},
		{"wrong type", "not.a.handler", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := routing.New(quiet(), routing.WithLocator(c))
			r.Service("/x", tt.service)

			rr := do(t, r, http.MethodGet, "/x")
			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("got %d want 500", rr.Code)
			}
			var body map[string]any
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.kind != "" && body["kind"] != tt.kind {
				t.Errorf("kind: got %v want %s", body["kind"], tt.kind)
			}
		})
	}
}

func TestRouter_Service_ErrorTextOnlyInDebug(t *testing.T) {
	c := container.New()
	c.Bind("broken", func(*container.Container) (any, error) {
		return nil, errors.New("open /etc/app/config/searches.env: permission denied")
	})

	for _, debug := range []bool{false, true} {
		r := routing.New(quiet(), routing.WithLocator(c), routing.WithDebug(debug))
		r.Prefix("/api", func(api *routing.Router) {
			api.Service("/x", "broken")
		})

		rr := do(t, r, http.MethodGet, "/api/x")
		var body map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		_, hasError := body["error"]
		if hasError != debug {
			t.Errorf("debug=%v: error field present=%v, body %v", debug, hasError, body)
		}
		if body["kind"] != "internal" {
			t.Errorf("debug=%v: kind got %v", debug, body["kind"])
		}
	}
}

func TestRouter_Service_WithoutLocator(t *testing.T) {
	r := routing.New(quiet())
	r.Service("/x", "anything")
	if rr := do(t, r, http.MethodGet, "/x"); rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d want 500", rr.Code)
	}
}

// ── Introspection & logging ──────────────────────────────────────────────────

func TestRouter_Routes(t *testing.T) {
	r := routing.New(quiet())
	r.Post("/b", okHandler)
	r.Get("/b", okHandler)
	r.Get("/a", okHandler)

	routes, err := r.Routes()
	if err != nil {
		t.Fatal(err)
	}
	want := []routing.Route{
		{Method: "GET", Pattern: "/a"},
		{Method: "GET", Pattern: "/b"},
		{Method: "POST", Pattern: "/b"},
	}
	if len(routes) != len(want) {
		t.Fatalf("got %v want %v", routes, want)
	}
	for i := range want {
		if routes[i] != want[i] {
			t.Errorf("route %d: got %v want %v", i, routes[i], want[i])
		}
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := routing.New(routing.WithLogger(zap.New(core)))
	r.Get("/records", okHandler)

	do(t, r, http.MethodGet, "/records")

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/records" {
		t.Errorf("path: got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status: got %v (%T)", fields["status"], fields["status"])
	}
}

func TestRouter_HandlerInterface(t *testing.T) {
	var _ http.Handler = routing.New(quiet()).Handler()
}
