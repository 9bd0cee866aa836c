package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-inventory-backend/internal/config"
	"book-inventory-backend/pkg/container"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, err := container.New(&config.Config{
		App:      config.AppConfig{Environment: "test", Version: "test"},
		Database: config.DatabaseConfig{Driver: "memory"},
		JWT:      config.JWTConfig{Secret: "router-secret", AccessTokenExpiry: 60},
		Storage:  config.StorageConfig{Mode: "mock", BucketName: "test-bucket", DeleteMode: "sync"},
		Cache:    config.CacheConfig{Driver: "memory", TTL: time.Minute, LRUSize: 64},
	})
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)
	return SetupRouter(c)
}

func send(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodGet, "/api/v1/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"memory"`)
}

func TestBooksRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodGet, "/api/v1/books", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterThenManageBooks(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"ana@example.com","password":"s3cretpass","name":"Ana"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(r, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"ana@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Data.AccessToken
	require.NotEmpty(t, token)

	w = send(r, http.MethodPost, "/api/v1/books", token,
		`{"title":"Cien años de soledad","author":"Gabriel García Márquez","editorial":"Sudamericana","price":15000,"genre":"Ficción"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(r, http.MethodGet, "/api/v1/books?search=garc", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = send(r, http.MethodGet, "/api/v1/books/statistics", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"byGenre":{"Ficción":1}`)

	scrape := send(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.True(t, strings.Contains(scrape.Body.String(), "books_mutations_total"))
}
