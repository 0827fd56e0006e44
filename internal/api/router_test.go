package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/importer"
	"github.com/pysugar/account-tabs/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := account.NewService(store.NewMemoryStore(nil), nil)
	srv := httptest.NewServer(NewRouter(Deps{
		Accounts: svc,
		Importer: importer.New(svc, importer.Options{}, nil),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(data)
}

func TestRouter_ImportUpdateListScenario(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{"alice", "bob"} {
		body := `{"tab":"tab1","username":"` + name + `","password":"p","fullName":"` + name + ` full"}`
		resp, out := do(t, http.MethodPost, srv.URL+"/api/accounts", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %s: %d %s", name, resp.StatusCode, out)
		}
	}

	resp, out := do(t, http.MethodPut, srv.URL+"/api/accounts", `{"id":2,"tab":"tab1","balance":48000}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: %d %s", resp.StatusCode, out)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}

	_, out = do(t, http.MethodGet, srv.URL+"/api/accounts?tab=tab1", "")
	var list []models.Account
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 || list[1].ID != 2 || list[1].Balance != 48000 || list[0].Balance != 0 {
		t.Fatalf("unexpected list: %+v", list)
	}

	resp, out = do(t, http.MethodGet, srv.URL+"/api/accounts?tab=tab2", "")
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected [] for empty tab, got %d %s", resp.StatusCode, out)
	}

	resp, out = do(t, http.MethodDelete, srv.URL+"/api/accounts/all?tab=tab1", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(out, `"count":2`) {
		t.Fatalf("clear: %d %s", resp.StatusCode, out)
	}
	_, out = do(t, http.MethodGet, srv.URL+"/api/accounts?tab=tab1", "")
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected tab1 empty after clear, got %s", out)
	}
}

func TestRouter_StaticRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/health", "/api/version", "/api/tabs", "/api/stats", "/api/accounts/search?q=x"} {
		resp, out := do(t, http.MethodGet, srv.URL+path, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d %s", path, resp.StatusCode, out)
		}
	}

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", resp.StatusCode)
	}
}
