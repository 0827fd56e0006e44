package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/parser"
	"github.com/pysugar/account-tabs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(names ...string) string {
	var b strings.Builder
	for i, n := range names {
		fmt.Fprintf(&b, "Tài khoản: %s\nMật khẩu: p%d\nHọ tên: %s Full\n", n, i+1, n)
	}
	return b.String()
}

func newTestImporter(t *testing.T) (*Importer, *account.Service) {
	t.Helper()
	svc := account.NewService(store.NewMemoryStore(nil), nil)
	return New(svc, Options{Mode: parser.ModeSimple}, nil), svc
}

func TestImportText(t *testing.T) {
	im, svc := newTestImporter(t)
	ctx := context.Background()

	res, err := im.ImportText(ctx, models.Tab1, "paste", listing("alice", "bob")+"Tài khoản: broken\n")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 1, res.Dropped)
	require.Len(t, res.Accounts, 2)
	assert.Equal(t, 1, res.Accounts[0].ID)

	list, err := svc.List(ctx, models.Tab1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = im.ImportText(ctx, models.Tab1, "paste", "nothing here")
	assert.ErrorIs(t, err, account.ErrNoValidRecords)
}

func TestImportURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts.txt":
			fmt.Fprint(w, listing("carol"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	im, _ := newTestImporter(t)
	ctx := context.Background()

	res, err := im.ImportURL(ctx, models.Tab2, srv.URL+"/accounts.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "carol", res.Accounts[0].Username)

	_, err = im.ImportURL(ctx, models.Tab2, srv.URL+"/missing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
	assert.Contains(t, err.Error(), "404")

	_, err = im.ImportURL(ctx, models.Tab2, "ftp://example.com/a.txt")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestImportSources_KeepsInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listing("url-user"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	require.NoError(t, os.WriteFile(first, []byte(listing("a1", "a2")), 0o644))
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("no accounts"), 0o644))

	im, svc := newTestImporter(t)
	ctx := context.Background()

	sources := []string{first, filepath.Join(dir, "missing.txt"), empty, srv.URL + "/x.txt"}
	results, err := im.ImportSources(ctx, models.Tab3, sources)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, account.ErrNoValidRecords)

	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].Source)
	assert.Equal(t, srv.URL+"/x.txt", results[1].Source)

	list, err := svc.List(ctx, models.Tab3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	byID := map[int]string{}
	for _, a := range list {
		byID[a.ID] = a.Username
	}
	assert.Equal(t, map[int]string{1: "a1", 2: "a2", 3: "url-user"}, byID)
}

func TestIsURLAndSourceName(t *testing.T) {
	assert.True(t, IsURL("https://example.com/list.txt"))
	assert.True(t, IsURL("http://example.com"))
	assert.False(t, IsURL("/tmp/list.txt"))
	assert.False(t, IsURL("ftp://example.com/list.txt"))

	assert.Equal(t, "list.txt", SourceName("https://example.com/a/list.txt"))
	assert.Equal(t, "file_from_url.txt", SourceName("https://example.com/"))
	assert.Equal(t, "list.txt", SourceName("/tmp/a/list.txt"))
}
