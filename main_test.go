package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Fixit/Constants"
	"Fixit/FiberConfig"
	"Fixit/Models"
	"Fixit/Notifications"
	"Fixit/Repairs"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	Constants.ListenAddress = ":0"
	Constants.RepairsFile = filepath.Join(t.TempDir(), "repairs.json")
	Constants.UploadsDir = t.TempDir()
	Constants.AdminUsername = "admin"
	Constants.AdminPassword = "hunter2"
	Constants.AdminPasswordHash = ""
	Constants.JWTSecret = "test-secret"

	store := Models.NewRepairStore(Constants.RepairsFile)
	service := Repairs.NewService(store, Notifications.NewDispatcher(), Constants.UploadsDir)
	return FiberConfig.BuildApp(service)
}

func login(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	for _, cookie := range res.Cookies() {
		if cookie.Name == "jwt" {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func submitForm(t *testing.T, app *fiber.App, fields map[string]string, photo []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if photo != nil {
		part, err := writer.CreateFormFile("photo", "broken.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/repair-request", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	res, err := app.Test(req, 5000)
	require.NoError(t, err)
	return res
}

func listRepairs(t *testing.T, app *fiber.App, cookie *http.Cookie) []Models.RepairRequest {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/repairs", nil)
	req.AddCookie(cookie)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var repairs []Models.RepairRequest
	require.NoError(t, json.NewDecoder(res.Body).Decode(&repairs))
	return repairs
}

func adminPost(t *testing.T, app *fiber.App, cookie *http.Cookie, path string, form url.Values) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(cookie)

	res, err := app.Test(req)
	require.NoError(t, err)
	return res
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	return buf.Bytes()
}

func TestAdminAPIRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/repairs", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// After authenticating, the same call succeeds
	cookie := login(t, app)
	repairs := listRepairs(t, app, cookie)
	assert.Empty(t, repairs)
}

func TestDashboardRedirectsAnonymousToLogin(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	for _, cookie := range res.Cookies() {
		assert.NotEqual(t, "jwt", cookie.Name, "failed login must not issue a session")
	}
}

func TestSubmitWithoutPhoto(t *testing.T) {
	app := newTestApp(t)

	res := submitForm(t, app, map[string]string{
		"name":    "Alice",
		"contact": "555-1",
		"device":  "Phone",
		"issue":   "Cracked screen",
		"method":  "drop-off",
	}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	cookie := login(t, app)
	repairs := listRepairs(t, app, cookie)
	require.Len(t, repairs, 1)
	assert.Equal(t, "Alice", repairs[0].Name)
	assert.Nil(t, repairs[0].Photo)
	assert.Nil(t, repairs[0].Quote)
}

func TestSubmitValidationFailure(t *testing.T) {
	app := newTestApp(t)

	res := submitForm(t, app, map[string]string{"name": "Alice"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestTwoSubmissionsGetDistinctIDs(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 2; i++ {
		res := submitForm(t, app, map[string]string{
			"name":    fmt.Sprintf("Customer %d", i),
			"contact": "555-1",
			"device":  "Phone",
			"issue":   "Cracked screen",
		}, nil)
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	cookie := login(t, app)
	repairs := listRepairs(t, app, cookie)
	require.Len(t, repairs, 2)
	assert.NotEqual(t, repairs[0].ID, repairs[1].ID)
}

func TestQuoteCompleteDeleteFlow(t *testing.T) {
	app := newTestApp(t)

	res := submitForm(t, app, map[string]string{
		"name":    "Alice",
		"contact": "555-1",
		"device":  "Phone",
		"issue":   "Cracked screen",
	}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	cookie := login(t, app)
	repairs := listRepairs(t, app, cookie)
	require.Len(t, repairs, 1)
	id := repairs[0].ID

	// Invalid quote is rejected
	res = adminPost(t, app, cookie, fmt.Sprintf("/api/repairs/%d/quote", id), url.Values{"quote": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Valid quote is stored as a number
	res = adminPost(t, app, cookie, fmt.Sprintf("/api/repairs/%d/quote", id), url.Values{"quote": {"49.99"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	repairs = listRepairs(t, app, cookie)
	require.NotNil(t, repairs[0].Quote)
	assert.InDelta(t, 49.99, *repairs[0].Quote, 0.0001)

	res = adminPost(t, app, cookie, fmt.Sprintf("/api/repairs/%d/complete", id), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	repairs = listRepairs(t, app, cookie)
	require.NotNil(t, repairs[0].Status)
	assert.Equal(t, Models.StatusCompleted, *repairs[0].Status)

	res = adminPost(t, app, cookie, fmt.Sprintf("/api/repairs/%d/delete", id), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, listRepairs(t, app, cookie))
}

func TestSubmitWithPhotoStoresUploadAndThumbnail(t *testing.T) {
	app := newTestApp(t)

	res := submitForm(t, app, map[string]string{
		"name":    "Alice",
		"contact": "555-1",
		"device":  "Phone",
		"issue":   "Cracked screen",
	}, pngBytes(t))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	cookie := login(t, app)
	repairs := listRepairs(t, app, cookie)
	require.Len(t, repairs, 1)
	require.NotNil(t, repairs[0].Photo)
	assert.True(t, strings.HasPrefix(*repairs[0].Photo, "/uploads/"))

	name := strings.TrimPrefix(*repairs[0].Photo, "/uploads/")
	_, err := os.Stat(filepath.Join(Constants.UploadsDir, name))
	require.NoError(t, err, "uploaded photo should exist")
	_, err = os.Stat(filepath.Join(Constants.UploadsDir, "thumb_"+name))
	require.NoError(t, err, "thumbnail should exist")

	// Deleting the request cleans both files up
	res = adminPost(t, app, cookie, fmt.Sprintf("/api/repairs/%d/delete", repairs[0].ID), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	_, err = os.Stat(filepath.Join(Constants.UploadsDir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestExportRepairsReturnsWorkbook(t *testing.T) {
	app := newTestApp(t)

	res := submitForm(t, app, map[string]string{
		"name":    "Alice",
		"contact": "555-1",
		"device":  "Phone",
		"issue":   "Cracked screen",
	}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	cookie := login(t, app)
	req := httptest.NewRequest(http.MethodGet, "/api/repairs/export", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var cleared *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "jwt" {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}
