package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/application"
	"github.com/mateusmacedo/go-eventaggregator/internal/rootfolder/domain"
	pkgApp "github.com/mateusmacedo/go-eventaggregator/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-eventaggregator/pkg/infrastructure"
)

func newTestRouter(t *testing.T) (http.Handler, string, *[]string) {
	t.Helper()

	var requestIDs []string
	bus, err := pkgInfra.NewEventAggregator(pkgApp.NopLogger{}, pkgApp.Subscribe("request-ids",
		pkgApp.HandlesFunc(func(ctx context.Context, _ domain.RootFolderEvent) error {
			id, _ := pkgApp.RequestIDFromContext(ctx)
			requestIDs = append(requestIDs, id)
			return nil
		}),
	))
	require.NoError(t, err)

	service := application.NewRootFolderService(
		NewInMemoryRootFolderRepository(pkgApp.NopLogger{}),
		OSDiskProvider{},
		StaticSeriesPaths(nil),
		bus,
		application.Settings{},
		pkgApp.NopLogger{},
	)

	router := chi.NewRouter()
	router.Use(RequestID)
	NewRootFolderHTTPHandler(service).RegisterRoutes(router)

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "Show"), 0o755))
	return router, root, &requestIDs
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRootFolderHTTPHandler(t *testing.T) {
	router, root, requestIDs := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/rootfolders", `{"path":"`+root+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.RootFolder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	require.Len(t, created.UnmappedFolders, 1)
	assert.Equal(t, "Show", created.UnmappedFolders[0].Name)

	require.Len(t, *requestIDs, 1)
	assert.NotEmpty(t, (*requestIDs)[0])

	rec = do(t, router, http.MethodPost, "/rootfolders", `{"path":"`+root+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodGet, "/rootfolders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.RootFolder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Empty(t, list[0].UnmappedFolders)

	rec = do(t, router, http.MethodGet, "/rootfolders?unmapped=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list[0].UnmappedFolders, 1)

	rec = do(t, router, http.MethodGet, "/rootfolders/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, "/rootfolders/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, *requestIDs, 2)

	rec = do(t, router, http.MethodGet, "/rootfolders/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRootFolderHTTPHandler_BadRequests(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"malformed body", http.MethodPost, "/rootfolders", "{", http.StatusBadRequest},
		{"relative path", http.MethodPost, "/rootfolders", `{"path":"tv"}`, http.StatusBadRequest},
		{"missing folder", http.MethodPost, "/rootfolders", `{"path":"/does/not/exist"}`, http.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/rootfolders/abc", "", http.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/rootfolders/7", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
