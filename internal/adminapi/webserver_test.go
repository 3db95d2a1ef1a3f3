package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/routerops/radman/config"
	"github.com/routerops/radman/internal/accounts"
	"github.com/routerops/radman/internal/devices"
	"github.com/routerops/radman/internal/domain"
	"github.com/routerops/radman/pkg/common"
	"github.com/routerops/radman/pkg/crypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	hashed, err := crypt.HashSecret("radman")
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.SysOpr{
		ID:        common.UUIDint64(),
		Username:  "admin",
		Password:  hashed,
		Level:     "super",
		Status:    common.ENABLED,
		LastLogin: time.Now(),
	}).Error)

	deviceRepo := devices.NewGormDeviceRepository(db)
	metricRepo := devices.NewGormMetricRepository(db)
	registry := devices.NewRegistry(deviceRepo, metricRepo, devices.NewRouterOSClient(time.Second))

	profileRepo := accounts.NewGormProfileRepository(db)
	userRepo := accounts.NewGormUserRepository(db)
	logRepo := accounts.NewGormActivityLogRepository(db)
	audit := accounts.NewAuditWriter(logRepo)
	service := accounts.NewAccountService(profileRepo, userRepo,
		accounts.NewValidators(profileRepo, userRepo), audit)

	cfg := &config.AppConfig{
		Web: config.WebConfig{Host: "127.0.0.1", Port: 0, Secret: "test-secret"},
	}
	return NewServer(cfg, db, registry, service, audit)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, s *Server) string {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": "radman",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthcheckPublic(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	loginToken(t, s)
}

func TestApiRequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/profiles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := loginToken(t, s)
	rec = doRequest(t, s, http.MethodGet, "/api/profiles", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfilePriceRoundTrip(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	rec := doRequest(t, s, http.MethodPost, "/api/profiles", token, map[string]interface{}{
		"name":      "home-basic",
		"up_rate":   1024,
		"down_rate": 2048,
		"price":     29.99,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dec := json.NewDecoder(strings.NewReader(rec.Body.String()))
	dec.UseNumber()
	var created map[string]interface{}
	require.NoError(t, dec.Decode(&created))
	assert.Equal(t, json.Number("29.99"), created["price"],
		"price must cross the wire as an exact JSON number")
	// Snowflake ids are string-encoded to stay safe for JS clients.
	_, isString := created["id"].(string)
	assert.True(t, isString)
}

func TestDeviceRegisterIgnoresStatus(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	rec := doRequest(t, s, http.MethodPost, "/api/devices", token, map[string]interface{}{
		"name":   "gw-1",
		"ipaddr": "192.168.88.1",
		"status": "online",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "offline", created["status"])
	assert.EqualValues(t, 8728, created["api_port"])
}

func TestUserLifecycleOverHttp(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	rec := doRequest(t, s, http.MethodPost, "/api/profiles", token, map[string]interface{}{
		"name":      "p",
		"up_rate":   1,
		"down_rate": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	profileId := profile["id"].(string)

	// Unknown profile reference.
	rec = doRequest(t, s, http.MethodPost, "/api/users", token, map[string]interface{}{
		"username":   "u1",
		"password":   "secret123",
		"profile_id": "12345",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "REFERENCE_NOT_FOUND")

	rec = doRequest(t, s, http.MethodPost, "/api/users", token, map[string]interface{}{
		"username":   "u1",
		"password":   "secret123",
		"profile_id": profileId,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "active", user["status"])
	assert.NotEqual(t, "secret123", user["password"])

	// Duplicate username conflicts.
	rec = doRequest(t, s, http.MethodPost, "/api/users", token, map[string]interface{}{
		"username":   "u1",
		"password":   "other",
		"profile_id": profileId,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username u1 already exists")

	// Profile deletion is blocked while referenced.
	rec = doRequest(t, s, http.MethodDelete, "/api/profiles/"+profileId, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 users are still using this profile")

	rec = doRequest(t, s, http.MethodDelete, "/api/users/"+user["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, s, http.MethodDelete, "/api/profiles/"+profileId, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUsersPagedEnvelope(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/users?page=1&perPage=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "data")
	assert.EqualValues(t, 0, body["total"])
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 10, body["page_size"])
}

func TestActivityLogEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	rec := doRequest(t, s, http.MethodPost, "/api/profiles", token, map[string]interface{}{
		"name": "p", "up_rate": 1, "down_rate": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))

	rec = doRequest(t, s, http.MethodPost, "/api/users", token, map[string]interface{}{
		"username": "u1", "password": "x", "profile_id": profile["id"],
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/activity-logs?username=u1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "account_created", entries[0]["action"])

	rec = doRequest(t, s, http.MethodGet, "/api/activity-logs?start=not-a-date", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/activity-logs/export?username=u1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "id,username,action")
	assert.Contains(t, rec.Body.String(), "account_created")
}

func TestDeviceNotFoundOverHttp(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	rec := doRequest(t, s, http.MethodGet, "/api/devices/31337/system-metrics", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Device with id 31337 not found")

	rec = doRequest(t, s, http.MethodPut, "/api/devices/bogus", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ID")
}
