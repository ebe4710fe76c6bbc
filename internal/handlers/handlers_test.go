package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cscportal/api/internal/config"
	"cscportal/api/internal/ids"
	"cscportal/api/internal/mocks"
	"cscportal/api/internal/security"
	"cscportal/api/internal/service"
)

const setupSecret = "setup-secret"

var pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router   *gin.Engine
	cfg      *config.AppConfig
	services *mocks.ServiceStore
	uploads  *mocks.UploadStore
	blobs    *mocks.BlobStore
}

func newFixture(t *testing.T, env string) *fixture {
	t.Helper()
	cfg := &config.AppConfig{
		Environment: env,
		HTTP:        config.HTTPConfig{MaxUploadBytes: 1 << 20, MaxFiles: 3},
	}
	log := zerolog.Nop()

	admins := mocks.NewAdminStore()
	services := mocks.NewServiceStore()
	contacts := mocks.NewContactStore()
	uploads := mocks.NewUploadStore()
	offers := mocks.NewOfferStore()
	notifications := mocks.NewNotificationStore()
	blobs := mocks.NewBlobStore()

	hasher := security.NewPasswordHasher(security.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	signer := security.NewTokenSigner("handler-test", time.Hour)

	svc := Services{
		Auth:          service.NewAuthService(admins, hasher, signer, setupSecret, log),
		Catalog:       service.NewCatalogService(services, blobs, log),
		Contacts:      service.NewContactService(contacts),
		Uploads:       service.NewUploadService(uploads, services, blobs, service.UploadLimits{MaxFileBytes: cfg.HTTP.MaxUploadBytes, MaxFiles: cfg.HTTP.MaxFiles}, log),
		Offers:        service.NewOfferService(offers, blobs, log),
		Notifications: service.NewNotificationService(notifications),
		Visitors:      service.NewVisitorService(&mocks.Counter{}),
		Dashboard:     service.NewDashboardService(services, contacts, uploads, offers),
	}

	router := gin.New()
	NewHandlerSet(cfg, log, svc, nil, nil).Register(router.Group("/api"))
	return &fixture{router: router, cfg: cfg, services: services, uploads: uploads, blobs: blobs}
}

type reply struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields"`
}

func (f *fixture) send(t *testing.T, req *http.Request, token string) (int, reply) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var r reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r), w.Body.String())
	return w.Code, r
}

func (f *fixture) json(t *testing.T, method, path, token string, body any) (int, reply) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return f.send(t, req, token)
}

func (f *fixture) multipart(t *testing.T, path, token string, fields map[string]string, files map[string][]byte) (int, reply) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return f.send(t, req, token)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// bootstrap registers the first administrator through setup mode and
// returns its token.
func (f *fixture) bootstrap(t *testing.T) string {
	t.Helper()
	status, r := f.json(t, http.MethodPost, "/api/admin/register", "", map[string]string{
		"name": "Owner", "email": "owner@csc.test", "password": "Owner@123",
	})
	require.Equal(t, http.StatusCreated, status, r.Message)
	auth := decode[service.AuthResult](t, r.Data)
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "development")
	status, r := f.json(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, r.Success)
	health := decode[healthResponse](t, r.Data)
	assert.Equal(t, "disabled", health.Database)
	assert.Equal(t, "disabled", health.Cache)
}

func TestAdminRegistrationAndLogin(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	status, r := f.json(t, http.MethodPost, "/api/admin/register", "", map[string]string{
		"name": "Intruder", "email": "x@csc.test", "password": "secret1",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "setup_closed", r.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/register", strings.NewReader(`{"name":"Desk","email":"desk@csc.test","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(setupTokenHeader, setupSecret)
	status, r = f.send(t, req, "")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "admin", string(decode[service.AuthResult](t, r.Data).Admin.Role))

	status, r = f.json(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "desk@csc.test", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", r.Code)

	status, r = f.json(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "nobody@csc.test", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", r.Code)

	status, r = f.json(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "DESK@csc.test", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[service.AuthResult](t, r.Data).Token)

	status, r = f.json(t, http.MethodGet, "/api/admin/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(r.Data), "owner@csc.test")
	assert.NotContains(t, string(r.Data), "password")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t, "development")

	status, r := f.json(t, http.MethodGet, "/api/services/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, r.Success)

	status, _ = f.json(t, http.MethodGet, "/api/contact", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestServiceLifecycle(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	body := map[string]any{
		"title":           "Income Certificate",
		"description":     "Apply online",
		"fullDescription": "Full details",
		"processingTime":  "3-5 days",
		"documents":       []string{"Aadhaar", "Ration card"},
		"order":           2,
	}
	status, r := f.json(t, http.MethodPost, "/api/services", token, body)
	require.Equal(t, http.StatusCreated, status, r.Fields)
	created := decode[struct {
		ID        string   `json:"id"`
		Slug      string   `json:"slug"`
		Icon      string   `json:"icon"`
		Documents []string `json:"documents"`
		Order     int      `json:"order"`
	}](t, r.Data)
	assert.Equal(t, "income-certificate", created.Slug)
	assert.Equal(t, "file", created.Icon)
	assert.Equal(t, []string{"Aadhaar", "Ration card"}, created.Documents)
	assert.Equal(t, 2, created.Order)

	status, r = f.json(t, http.MethodPost, "/api/services", token, body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate", r.Code)

	status, r = f.json(t, http.MethodGet, "/api/services/income-certificate", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(r.Data), created.ID)

	status, r = f.json(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]json.RawMessage](t, r.Data), 1)

	status, _ = f.json(t, http.MethodDelete, "/api/services/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, r = f.json(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]json.RawMessage](t, r.Data))

	status, r = f.json(t, http.MethodPut, "/api/services/"+created.ID, token, map[string]string{"title": "Back"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", r.Code)
}

func TestServiceValidation(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	status, r := f.json(t, http.MethodPost, "/api/services", token, map[string]any{"title": "Only title", "order": "first"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", r.Code)
	assert.Contains(t, r.Fields, "order")
}

func TestContactFlow(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	status, r := f.json(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Asha", "phone": "12345", "message": "hi"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, r.Fields, "phone")

	status, r = f.json(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Asha", "phone": "9876543210", "message": "Need a PAN card"})
	require.Equal(t, http.StatusCreated, status)
	contact := decode[struct {
		ID              string `json:"id"`
		Status          string `json:"status"`
		ServiceInterest string `json:"serviceInterest"`
	}](t, r.Data)
	assert.Equal(t, "new", contact.Status)
	assert.Equal(t, "General Inquiry", contact.ServiceInterest)

	status, r = f.json(t, http.MethodPut, "/api/contact/"+contact.ID+"/status", token, map[string]string{"status": "resolved"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(r.Data), `"status":"resolved"`)

	status, r = f.json(t, http.MethodGet, "/api/contact?status=resolved", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(r.Data), contact.ID)
}

func TestUploadFlow(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	status, r := f.json(t, http.MethodPost, "/api/services", token, map[string]any{
		"title": "PAN Card", "description": "d", "fullDescription": "fd", "processingTime": "1 day",
	})
	require.Equal(t, http.StatusCreated, status)
	serviceID := decode[struct {
		ID string `json:"id"`
	}](t, r.Data).ID

	status, r = f.multipart(t, "/api/upload", "", map[string]string{"serviceId": ids.New()}, map[string][]byte{"aadhaar.pdf": pdfBytes})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, 0, f.blobs.Len())
	assert.Equal(t, 0, f.uploads.Len())

	status, r = f.multipart(t, "/api/upload", "", map[string]string{"serviceId": serviceID}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "empty_payload", r.Code)

	status, r = f.multipart(t, "/api/upload", "", map[string]string{"serviceId": serviceID, "userId": "walkin-7"}, map[string][]byte{"aadhaar.pdf": pdfBytes})
	require.Equal(t, http.StatusCreated, status, r.Fields)
	upload := decode[struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
		Status string `json:"status"`
		Files  []struct {
			FileType string `json:"fileType"`
		} `json:"files"`
	}](t, r.Data)
	assert.Equal(t, "walkin-7", upload.UserID)
	assert.Equal(t, "pending", upload.Status)
	require.Len(t, upload.Files, 1)
	assert.Equal(t, "application/pdf", upload.Files[0].FileType)

	status, r = f.json(t, http.MethodPut, "/api/upload/"+upload.ID+"/status", token, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(r.Data), `"processedBy"`)

	status, r = f.json(t, http.MethodGet, "/api/upload/service/"+serviceID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(r.Data), upload.ID)
}

func TestOffersFromForm(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	status, r := f.multipart(t, "/api/offers", token, map[string]string{
		"title":      "Festive discount",
		"discount":   "20",
		"validFrom":  "2020-01-01",
		"validUntil": "2099-12-31",
	}, nil)
	require.Equal(t, http.StatusCreated, status, r.Fields)
	offerID := decode[struct {
		ID string `json:"id"`
	}](t, r.Data).ID

	status, r = f.json(t, http.MethodPost, "/api/offers", token, map[string]any{
		"title": "Too generous", "discount": 150, "validFrom": "2020-01-01", "validUntil": "2099-12-31",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, r.Fields, "discount")

	for _, path := range []string{"/api/offers", "/api/offers/active"} {
		status, r = f.json(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, decode[[]json.RawMessage](t, r.Data), 1)
	}

	status, _ = f.json(t, http.MethodPost, "/api/offers/"+offerID+"/track-click", "", nil)
	require.Equal(t, http.StatusOK, status)

	status, r = f.json(t, http.MethodGet, "/api/offers/analytics", token, nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[service.OfferReport](t, r.Data)
	assert.Equal(t, int64(1), report.Analytics.TotalClicks)

	status, _ = f.json(t, http.MethodDelete, "/api/offers/"+offerID, token, nil)
	require.Equal(t, http.StatusOK, status)
	status, r = f.json(t, http.MethodGet, "/api/offers", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]json.RawMessage](t, r.Data))
}

func TestNotificationsAndVisitors(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	status, r := f.json(t, http.MethodPost, "/api/notifications", token, map[string]any{"text": "Office closed Sunday", "priority": 3})
	require.Equal(t, http.StatusCreated, status, r.Fields)

	status, r = f.json(t, http.MethodPost, "/api/notifications", token, map[string]any{"text": "x", "priority": 9})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, r.Fields, "priority")

	status, r = f.json(t, http.MethodGet, "/api/notifications/active", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(r.Data), "Office closed Sunday")

	for i := 0; i < 2; i++ {
		status, _ = f.json(t, http.MethodPost, "/api/visitor/increment", "", nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, r = f.json(t, http.MethodGet, "/api/visitor/count", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), decode[visitorCount](t, r.Data).Count)

	status, _ = f.json(t, http.MethodPost, "/api/visitor/reset", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, r = f.json(t, http.MethodPost, "/api/visitor/reset", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), decode[visitorCount](t, r.Data).Count)
}

func TestDependencyFailureDetail(t *testing.T) {
	for env, wantDetail := range map[string]bool{"development": true, "production": false} {
		t.Run(env, func(t *testing.T) {
			f := newFixture(t, env)
			f.services.FailOn("List", errors.New("connection refused"))

			status, r := f.json(t, http.MethodGet, "/api/services", "", nil)
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.Equal(t, "internal_error", r.Code)
			assert.Equal(t, "Server error", r.Message)
			if wantDetail {
				assert.Contains(t, r.Error, "connection refused")
			} else {
				assert.Empty(t, r.Error)
			}
		})
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t, "development")
	token := f.bootstrap(t)

	status, _ := f.json(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Asha", "phone": "9876543210", "message": "hello"})
	require.Equal(t, http.StatusCreated, status)

	status, r := f.json(t, http.MethodGet, "/api/admin/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[struct {
		Contacts struct {
			Total int64 `json:"total"`
		} `json:"contacts"`
	}](t, r.Data)
	assert.Equal(t, int64(1), stats.Contacts.Total)
}
