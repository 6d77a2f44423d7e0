package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/services"
)

const testSecret = "test-secret-at-least-32-characters-long"

type response struct {
	Success    bool                 `json:"success"`
	Data       json.RawMessage      `json:"data"`
	Message    string               `json:"message"`
	Errors     []map[string]any     `json:"errors"`
	Count      *int                 `json:"count"`
	Pagination *services.Pagination `json:"pagination"`
	ContactID  string               `json:"contactId"`
	Error      string               `json:"error"`
}

type testAPI struct {
	t        *testing.T
	handler  http.Handler
	contacts *services.ContactService
}

func newTestAPI(t *testing.T, cfg config.Config) *testAPI {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"), nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	store := database.New(db)
	svc := Services{
		Projects:       services.NewProjectService(store),
		Certifications: services.NewCertificationService(store),
		Contacts:       services.NewContactService(store, nil),
	}
	if cfg.Environment == "" {
		cfg.Environment = config.EnvTest
	}
	if cfg.ContactRateLimit == 0 {
		cfg.ContactRateLimit = 100
		cfg.ContactRateWindow = time.Minute
	}
	return &testAPI{t: t, handler: newRouter(svc, withConfig(cfg)), contacts: svc.Contacts}
}

func (a *testAPI) do(method, path string, body any, token string) (*httptest.ResponseRecorder, response) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "api-test")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var res response
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	}
	return rec, res
}

func signToken(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestIssueAdminToken(t *testing.T) {
	_, err := IssueAdminToken("", "owner", time.Hour)
	assert.Error(t, err)

	token, err := IssueAdminToken(testSecret, "owner", time.Hour)
	require.NoError(t, err)

	a := newTestAPI(t, config.Config{AdminJWTSecret: testSecret})
	rec, _ := a.do(http.MethodGet, "/api/contact", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/contact", nil, signToken(t, "owner", time.Now().Add(time.Hour))+"x")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseAdminToken(t *testing.T) {
	secret := []byte(testSecret)

	admin, err := parseAdminToken(secret, "Bearer "+signToken(t, "owner", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "owner", admin.Subject)

	_, err = parseAdminToken(secret, "")
	assert.True(t, errs.IsMissingTokenError(err))

	_, err = parseAdminToken(secret, "Bearer   ")
	assert.True(t, errs.IsMissingTokenError(err))

	_, err = parseAdminToken(secret, "Bearer "+signToken(t, "owner", time.Now().Add(-time.Minute)))
	assert.True(t, errs.IsExpiredTokenError(err))

	_, err = parseAdminToken([]byte("another-secret"), "Bearer "+signToken(t, "owner", time.Now().Add(time.Hour)))
	assert.True(t, errs.IsInvalidTokenError(err))

	hs384 := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{Subject: "owner"})
	signed, err := hs384.SignedString(secret)
	require.NoError(t, err)
	_, err = parseAdminToken(secret, "Bearer "+signed)
	assert.True(t, errs.IsInvalidTokenError(err))
	assert.False(t, errs.IsExpiredTokenError(err))
}

func TestDecodeJSON(t *testing.T) {
	var payload services.ContactPayload

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane Doe"}`))
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &payload, "contact"))
	assert.Equal(t, "Jane Doe", payload.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	err := decodeJSON(httptest.NewRecorder(), req, &payload, "contact")
	assert.True(t, errs.IsMalformedPayloadError(err))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane Doe"}`))
	req.Header.Set("Content-Type", "text/plain")
	err = decodeJSON(httptest.NewRecorder(), req, &payload, "contact")
	assert.Equal(t, http.StatusUnsupportedMediaType, errs.StatusCode(err))
	assert.False(t, errs.IsMalformedPayloadError(err))
}

func projectBody(title string) map[string]any {
	return map[string]any{
		"title":           title,
		"category":        "web",
		"description":     "Personal portfolio site",
		"longDescription": "A personal portfolio with projects, certifications and a contact form backed by an API.",
		"technologies":    []string{"React", "Go"},
		"features":        []string{"Contact form", "Project gallery"},
		"image":           "/projects/portfolio.png",
		"github":          "https://github.com/someone/portfolio",
		"startDate":       "2024-01-01",
	}
}

func TestContactScenario(t *testing.T) {
	a := newTestAPI(t, config.Config{})

	rec, res := a.do(http.MethodPost, "/api/contact", map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Hello there",
		"message": "This is a test message.",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, res.Success)
	assert.Equal(t, "Message sent successfully! I'll get back to you soon.", res.Message)
	require.NotEmpty(t, res.ContactID)

	rec, res = a.do(http.MethodGet, "/api/contact", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, string(res.Data), "ipAddress")
	assert.NotContains(t, string(res.Data), "userAgent")

	var contacts []map[string]any
	require.NoError(t, json.Unmarshal(res.Data, &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, res.ContactID, contacts[0]["id"])
	assert.Equal(t, "new", contacts[0]["status"])
	assert.Equal(t, int64(1), res.Pagination.Total)
}

func TestContactStatusArchivedRejected(t *testing.T) {
	a := newTestAPI(t, config.Config{})

	_, created := a.do(http.MethodPost, "/api/contact", map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Hello there",
		"message": "This is a test message.",
	}, "")

	rec, res := a.do(http.MethodPatch, "/api/contact/"+created.ContactID+"/status", map[string]string{"status": "archived"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid status value", res.Message)

	_, res = a.do(http.MethodGet, "/api/contact?status=new", nil, "")
	assert.Equal(t, int64(1), res.Pagination.Total)

	rec, res = a.do(http.MethodPatch, "/api/contact/"+created.ContactID+"/status", map[string]string{"status": "read"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Status updated successfully", res.Message)
}

func TestContactValidationListsEveryField(t *testing.T) {
	a := newTestAPI(t, config.Config{})

	rec, res := a.do(http.MethodPost, "/api/contact", map[string]string{"name": "J"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", res.Message)

	fields := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		fields = append(fields, e["field"].(string))
	}
	assert.ElementsMatch(t, []string{"name", "email", "subject", "message"}, fields)
}

func postContactFrom(t *testing.T, handler http.Handler, forwardedFor string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"J"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = "203.0.113.9:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestContactRateLimit(t *testing.T) {
	a := newTestAPI(t, config.Config{ContactRateLimit: 2, ContactRateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		rec, _ := a.do(http.MethodPost, "/api/contact", map[string]string{"name": "J"}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec, res := a.do(http.MethodPost, "/api/contact", map[string]string{"name": "J"}, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, res.Success)
}

func TestContactRateLimitIgnoresForwardedHeaders(t *testing.T) {
	a := newTestAPI(t, config.Config{ContactRateLimit: 2, ContactRateWindow: time.Minute})

	var codes []int
	for i := 0; i < 4; i++ {
		codes = append(codes, postContactFrom(t, a.handler, fmt.Sprintf("10.1.1.%d", i)))
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestContactRateLimitBehindTrustedProxy(t *testing.T) {
	a := newTestAPI(t, config.Config{ContactRateLimit: 2, ContactRateWindow: time.Minute, TrustProxy: true})

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusBadRequest, postContactFrom(t, a.handler, fmt.Sprintf("10.1.1.%d", i)))
	}
	assert.Equal(t, http.StatusBadRequest, postContactFrom(t, a.handler, "10.1.1.9"))
	assert.Equal(t, http.StatusBadRequest, postContactFrom(t, a.handler, "10.1.1.9"))
	assert.Equal(t, http.StatusTooManyRequests, postContactFrom(t, a.handler, "10.1.1.9"))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t, config.Config{AdminJWTSecret: testSecret})

	rec, _ := a.do(http.MethodPost, "/api/projects", projectBody("Portfolio"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/projects", projectBody("Portfolio"), signToken(t, "owner", time.Now().Add(-time.Minute)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/projects", projectBody("Portfolio"), "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(http.MethodGet, "/api/contact", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, res := a.do(http.MethodPost, "/api/projects", projectBody("Portfolio"), signToken(t, "owner", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Project created successfully", res.Message)

	rec, _ = a.do(http.MethodGet, "/api/projects", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProjectLifecycle(t *testing.T) {
	a := newTestAPI(t, config.Config{})

	rec, res := a.do(http.MethodPost, "/api/projects", projectBody("Portfolio"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID       string `json:"id"`
		IsActive bool   `json:"isActive"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.True(t, created.IsActive)
	assert.Equal(t, "completed", created.Status)

	rec, _ = a.do(http.MethodGet, "/api/projects/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	update := projectBody("Portfolio v2")
	update["endDate"] = "2023-12-01"
	rec, res = a.do(http.MethodPut, "/api/projects/"+created.ID, update, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EndDate must be after startDate", res.Message)

	rec, res = a.do(http.MethodDelete, "/api/projects/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project deleted successfully", res.Message)

	rec, res = a.do(http.MethodDelete, "/api/projects/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", res.Message)

	rec, _ = a.do(http.MethodGet, "/api/projects/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectListBeyondLastPage(t *testing.T) {
	a := newTestAPI(t, config.Config{})
	for _, title := range []string{"One", "Two", "Three"} {
		rec, _ := a.do(http.MethodPost, "/api/projects", projectBody(title), "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, res := a.do(http.MethodGet, "/api/projects?page=9&limit=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(res.Data))
	assert.Equal(t, &services.Pagination{Current: 9, Pages: 2, Total: 3, HasPrev: true}, res.Pagination)

	rec, res = a.do(http.MethodGet, "/api/projects/featured", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, res.Count)
	assert.Equal(t, 0, *res.Count)

	rec, res = a.do(http.MethodGet, "/api/projects/stats/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(res.Data), `"uniqueTechnologiesCount":2`)

	rec, res = a.do(http.MethodGet, "/api/projects/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(res.Data), `"total":3`)
}

func TestProjectListFeaturedFilter(t *testing.T) {
	a := newTestAPI(t, config.Config{})

	featured := projectBody("Showcase")
	featured["featured"] = true
	for _, body := range []map[string]any{featured, projectBody("Side project")} {
		rec, _ := a.do(http.MethodPost, "/api/projects", body, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	tests := []struct {
		query string
		total int
		title string
	}{
		{"", 2, ""},
		{"?featured=true", 1, "Showcase"},
		{"?featured=false", 1, "Side project"},
		{"?featured=yes", 1, "Side project"},
		{"?featured=", 1, "Side project"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, res := a.do(http.MethodGet, "/api/projects"+tt.query, nil, "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.NotNil(t, res.Pagination)
			assert.EqualValues(t, tt.total, res.Pagination.Total)
			if tt.title != "" {
				assert.Contains(t, string(res.Data), tt.title)
			}
		})
	}
}

func TestCertificationDuplicateOverHTTP(t *testing.T) {
	a := newTestAPI(t, config.Config{})
	body := map[string]any{
		"title":          "AWS Solutions Architect",
		"issuer":         "Amazon Web Services",
		"date":           "2023-03-10",
		"credentialId":   "AWS-SAA-9999",
		"description":    "Designing distributed systems on AWS.",
		"skills":         []string{"EC2", "S3"},
		"certificateUrl": "https://aws.amazon.com/verify/AWS-SAA-9999",
		"icon":           "aws",
	}

	rec, _ := a.do(http.MethodPost, "/api/certifications", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, res := a.do(http.MethodPost, "/api/certifications", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Credential ID already exists", res.Message)

	rec, res = a.do(http.MethodGet, "/api/certifications", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, res.Count)
	assert.Equal(t, 1, *res.Count)
}

func TestMalformedBody(t *testing.T) {
	a := newTestAPI(t, config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("name=Jane"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	a := newTestAPI(t, config.Config{Environment: config.EnvDevelopment})

	rec, res := a.do(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(res.Data), `"environment":"development"`)

	rec, res = a.do(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, res.Success)
}

func TestWriteErrorHidesDetailInProduction(t *testing.T) {
	cause := errors.New("connection refused")

	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop(), false).WriteError(rec, cause, "Failed to retrieve projects")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), "Failed to retrieve projects")

	rec = httptest.NewRecorder()
	NewResponder(zerolog.Nop(), true).WriteError(rec, cause, "Failed to retrieve projects")
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		want       string
	}{
		{"socket", false, nil, "192.0.2.1"},
		{"forged forwarded ignored", false, map[string]string{"X-Forwarded-For": "1.2.3.4"}, "192.0.2.1"},
		{"forged real ip ignored", false, map[string]string{"X-Real-IP": "1.2.3.4"}, "192.0.2.1"},
		{"trusted forwarded chain", true, map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"trusted real ip", true, map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"trusted without headers", true, nil, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			r := chi.NewRouter()
			if tt.trustProxy {
				r.Use(middleware.RealIP)
			}
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				got = getClientIP(r)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
