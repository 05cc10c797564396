package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/apperror"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/domain"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/repository"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/translation"
	"github.com/quochao170402/ecommerce-aws/items-api/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubEngine answers from a fixed table and counts calls.
type stubEngine struct {
	translations map[string]string
	calls        int
}

func (e *stubEngine) Translate(_ context.Context, text, _, target string) (string, error) {
	e.calls++
	translated, ok := e.translations[target]
	if !ok {
		return "", errors.New("unsupported language pair")
	}
	return translated, nil
}

type testServer struct {
	router *gin.Engine
	store  *service.MemoryStore[domain.Item]
	engine *stubEngine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := service.NewMemoryStore[domain.Item](repository.ItemKeySchema)
	repo := repository.NewItemRepository(store, repository.WithRequiredFields(domain.AttrDescription))
	engine := &stubEngine{translations: map[string]string{"es": "Hola mundo", "fr": "Bonjour le monde"}}
	manager := translation.NewManager(repo, engine)

	handler := NewItemHandler(repo, manager, Mapper{Debug: false})
	handler.newSortKey = func() string { return "generated-sort-key" }

	router := gin.New()
	RegisterItemRoutes(router.Group("/items"), handler)
	return &testServer{router: router, store: store, engine: engine}
}

type responseBody struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Kind    string          `json:"kind"`
	Details string          `json:"details"`
	Count   int             `json:"count"`
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, responseBody) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp responseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decodeItem(t *testing.T, raw json.RawMessage) domain.Item {
	t.Helper()
	var item domain.Item
	require.NoError(t, json.Unmarshal(raw, &item))
	return item
}

func TestCreateItem(t *testing.T) {
	s := newTestServer(t)

	status, resp := s.do(t, http.MethodPost, "/items",
		`{"partitionKey":"product","sortKey":"p1001","name":"Wireless Headphones","description":"Noise cancelling","numericAttribute":149.99,"booleanAttribute":true}`)

	require.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "Item created successfully", resp.Message)

	item := decodeItem(t, resp.Data)
	assert.Equal(t, "p1001", item.SortKey)
	assert.Equal(t, 149.99, *item.NumericAttribute)
	assert.True(t, *item.BooleanAttribute)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
}

func TestCreateItem_GeneratesSortKey(t *testing.T) {
	s := newTestServer(t)

	status, resp := s.do(t, http.MethodPost, "/items", `{"partitionKey":"product","description":"Smart Watch"}`)

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "generated-sort-key", decodeItem(t, resp.Data).SortKey)
}

func TestCreateItem_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "missing partition key", body: `{"description":"x"}`, wantMessage: "partitionKey is required"},
		{name: "missing required field", body: `{"partitionKey":"p","sortKey":"s"}`, wantMessage: "missing fields: description"},
		{name: "unknown field", body: `{"partitionKey":"p","description":"x","color":"red"}`, wantMessage: `unknown field "color"`},
		{name: "wrong type", body: `{"partitionKey":"p","description":"x","numericAttribute":"lots"}`, wantMessage: "numericAttribute must be a number"},
		{name: "not json", body: `partitionKey=p`, wantMessage: "request body must be a JSON object"},
		{name: "empty body", body: ``, wantMessage: "request body must be a JSON object"},
		{
			name:        "multibyte partition key over the byte limit",
			body:        `{"partitionKey":"` + strings.Repeat("€", 700) + `","description":"x"}`,
			wantMessage: "partitionKey must be at most 2048 bytes",
		},
		{
			name:        "sort key over the byte limit",
			body:        `{"partitionKey":"p","sortKey":"` + strings.Repeat("s", 1025) + `","description":"x"}`,
			wantMessage: "sortKey must be at most 1024 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			status, resp := s.do(t, http.MethodPost, "/items", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, resp.Success)
			assert.Equal(t, string(apperror.KindValidation), resp.Kind)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, 0, s.store.Len())
		})
	}
}

func TestCreateItem_Conflict(t *testing.T) {
	s := newTestServer(t)
	body := `{"partitionKey":"p","sortKey":"s","description":"x"}`

	status, _ := s.do(t, http.MethodPost, "/items", body)
	require.Equal(t, http.StatusCreated, status)

	status, resp := s.do(t, http.MethodPost, "/items", body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, string(apperror.KindAlreadyExists), resp.Kind)
}

func seed(t *testing.T, s *testServer) {
	t.Helper()
	for _, body := range []string{
		`{"partitionKey":"product","sortKey":"p1001","description":"Wireless Headphones"}`,
		`{"partitionKey":"product","sortKey":"p1002","description":"Smart Watch"}`,
		`{"partitionKey":"product","sortKey":"p1003","description":"smart watch band"}`,
		`{"partitionKey":"other","sortKey":"o1","description":"Pocket Watch"}`,
	} {
		status, _ := s.do(t, http.MethodPost, "/items", body)
		require.Equal(t, http.StatusCreated, status)
	}
}

func TestListItems(t *testing.T) {
	s := newTestServer(t)
	seed(t, s)

	tests := []struct {
		path string
		want []string
	}{
		{path: "/items", want: []string{"o1", "p1001", "p1002", "p1003"}},
		{path: "/items?filter=Watch", want: []string{"o1", "p1002"}},
		{path: "/items/product", want: []string{"p1001", "p1002", "p1003"}},
		{path: "/items/product?filter=Watch", want: []string{"p1002"}},
		{path: "/items/product?sortKey=p1003", want: []string{"p1003"}},
		{path: "/items/product?limit=1", want: []string{"p1001"}},
		{path: "/items/nobody", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, resp := s.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, status)

			var items []domain.Item
			require.NoError(t, json.Unmarshal(resp.Data, &items))
			got := make([]string, 0, len(items))
			for _, item := range items {
				got = append(got, item.SortKey)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}
}

func TestListItems_InvalidQuery(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/items?limit=-1", "/items?limit=abc", "/items?sortKey=s"} {
		status, resp := s.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, string(apperror.KindValidation), resp.Kind, path)
	}
}

func TestGetItem(t *testing.T) {
	s := newTestServer(t)
	seed(t, s)

	status, resp := s.do(t, http.MethodGet, "/items/product/p1002", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Smart Watch", decodeItem(t, resp.Data).Description)

	status, resp = s.do(t, http.MethodGet, "/items/product/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, string(apperror.KindNotFound), resp.Kind)
}

func TestUpdateItem(t *testing.T) {
	s := newTestServer(t)
	seed(t, s)

	_, before := s.do(t, http.MethodGet, "/items/product/p1002", "")
	original := decodeItem(t, before.Data)

	status, resp := s.do(t, http.MethodPut, "/items/product/p1002", `{"description":"Smart Watch 2","numericAttribute":199}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item updated successfully", resp.Message)

	updated := decodeItem(t, resp.Data)
	assert.Equal(t, "Smart Watch 2", updated.Description)
	assert.Equal(t, 199.0, *updated.NumericAttribute)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.GreaterOrEqual(t, updated.UpdatedAt, original.UpdatedAt)
}

func TestUpdateItem_Rejections(t *testing.T) {
	s := newTestServer(t)
	seed(t, s)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantKind   apperror.Kind
	}{
		{name: "empty patch", path: "/items/product/p1001", body: `{}`, wantStatus: http.StatusBadRequest, wantKind: apperror.KindValidation},
		{name: "unknown field", path: "/items/product/p1001", body: `{"sortKey":"new"}`, wantStatus: http.StatusBadRequest, wantKind: apperror.KindValidation},
		{name: "missing item", path: "/items/product/missing", body: `{"name":"x"}`, wantStatus: http.StatusNotFound, wantKind: apperror.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := s.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, string(tt.wantKind), resp.Kind)
		})
	}
}

func TestTranslateItem(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, http.MethodPost, "/items", `{"partitionKey":"p","sortKey":"s1","description":"Hello world"}`)
	require.Equal(t, http.StatusCreated, status)

	status, resp := s.do(t, http.MethodGet, "/items/p/s1/translation?language=es", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]string{"es": "Hola mundo"}, decodeItem(t, resp.Data).Translations)

	status, _ = s.do(t, http.MethodGet, "/items/p/s1/translation?language=es", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, s.engine.calls)

	_, resp = s.do(t, http.MethodGet, "/items/p/s1", "")
	assert.Equal(t, map[string]string{"es": "Hola mundo"}, decodeItem(t, resp.Data).Translations)
}

func TestTranslateItem_Errors(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, http.MethodPost, "/items", `{"partitionKey":"p","sortKey":"s1","description":"Hello world"}`)
	require.Equal(t, http.StatusCreated, status)

	tests := []struct {
		path       string
		wantStatus int
		wantKind   apperror.Kind
	}{
		{path: "/items/p/s1/translation?language=EN!", wantStatus: http.StatusBadRequest, wantKind: apperror.KindValidation},
		{path: "/items/p/missing/translation?language=fr", wantStatus: http.StatusNotFound, wantKind: apperror.KindNotFound},
		{path: "/items/p/s1/translation?language=de", wantStatus: http.StatusInternalServerError, wantKind: apperror.KindTranslationEngine},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, resp := s.do(t, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, string(tt.wantKind), resp.Kind)
			assert.Empty(t, resp.Details)
		})
	}
}
