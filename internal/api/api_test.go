package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/okved-cli/internal/okved"
)

func newTestRouter() http.Handler {
	c := okved.New([]okved.Row{
		{Code: "01", Name: "Растениеводство"},
		{Code: "01.1", Name: "Выращивание однолетних культур"},
		{Code: "01.1.1", Name: "Выращивание зерновых"},
		{Code: "05", Name: "Добыча угля"},
	})
	return NewRouter(c, Options{})
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["sections"])
}

func TestRequestIDPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestSections(t *testing.T) {
	rec := do(t, newTestRouter(), "/v1/sections")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []okved.Entry{
		{Code: "01", Name: "Растениеводство"},
		{Code: "05", Name: "Добыча угля"},
	}, decode[[]okved.Entry](t, rec))
}

func TestTopSections(t *testing.T) {
	rec := do(t, newTestRouter(), "/v1/top-sections")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]okved.Entry](t, rec)
	require.Len(t, entries, 21)
	assert.Equal(t, "A", entries[0].Code)
}

func TestTopSectionChildren(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, "/v1/top-sections/A")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []okved.Entry{
		{Code: "01", Name: "Растениеводство"},
		{Code: "01.1", Name: "Выращивание однолетних культур"},
		{Code: "01.1.1", Name: "Выращивание зерновых"},
		{Code: "02", Name: ""},
		{Code: "03", Name: ""},
	}, decode[[]okved.Entry](t, rec))

	rec = do(t, h, "/v1/top-sections/A/codes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"01", "01.1", "01.1.1", "02", "03"}, decode[[]string](t, rec))
}

func TestTopSectionNotFound(t *testing.T) {
	h := newTestRouter()

	for _, target := range []string{"/v1/top-sections/Z", "/v1/top-sections/Z/codes"} {
		rec := do(t, h, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, map[string]string{"error": "Раздел Z не найден."}, decode[map[string]string](t, rec))
	}
}

func TestLookup(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, "/v1/codes/01.1.1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, okved.Node{
		Code:       "01.1.1",
		Name:       "Выращивание зерновых",
		Level:      "subsection",
		Parent:     "01.1",
		TopSection: "A",
	}, decode[okved.Node](t, rec))

	rec = do(t, h, "/v1/codes/99.9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "code 99.9 not found")
}

func TestChildren(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, "/v1/codes/01/children")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []okved.Entry{
		{Code: "01.1", Name: "Выращивание однолетних культур"},
		{Code: "01.1.1", Name: "Выращивание зерновых"},
	}, decode[[]okved.Entry](t, rec))

	rec = do(t, h, "/v1/codes/01.1/children/codes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"01.1.1"}, decode[[]string](t, rec))

	rec = do(t, h, "/v1/codes/77/children")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFullList(t *testing.T) {
	rec := do(t, newTestRouter(), "/v1/list")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]okved.Entry](t, rec)
	assert.Equal(t, okved.Entry{Code: "A", Name: "Сельское, лесное хозяйство, охота, рыболовство и рыбоводство"}, entries[0])
	assert.Equal(t, okved.Entry{Code: "01", Name: "Растениеводство"}, entries[1])
}

func TestSearch(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, "/v1/search?q=%D1%83%D0%B3%D0%BB%D1%8F")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []okved.Entry{{Code: "05", Name: "Добыча угля"}}, decode[[]okved.Entry](t, rec))

	rec = do(t, h, "/v1/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	c := okved.New(nil)
	h := NewRouter(c, Options{CORSOrigins: []string{"https://forms.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/sections", nil)
	req.Header.Set("Origin", "https://forms.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://forms.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
