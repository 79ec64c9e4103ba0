package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"secplus_backend/internal/config"
	"secplus_backend/internal/model"
	"secplus_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	// the logger writes logs/app.log relative to the working directory
	t.Chdir(t.TempDir())

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: "test"},
		Database:  config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		JWT:       config.JWTConfig{Secret: "app-secret"},
		Storage:   config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir(), QuestionBankKey: "questions.json"},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
		Quiz: config.QuizConfig{
			DefaultLimit:      5,
			PracticeTestCount: 10,
			SessionTimeout:    time.Minute,
			FlashcardTimeout:  time.Minute,
			SweepInterval:     time.Hour,
		},
	}

	a := NewApp(cfg, "")
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func do(a *App, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestNewAppServesRoutes(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/swagger/doc.json", "").Code)

	w := do(a, http.MethodGet, "/api/quiz/sections", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 5)

	// empty bank
	assert.Equal(t, http.StatusNotFound, do(a, http.MethodPost, "/api/quiz/create/random", "").Code)
}

func TestNewAppGuardsProgressAndAdmin(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, do(a, http.MethodGet, "/api/progress/statistics", "").Code)

	student, err := util.GenerateJWT("s-1", model.Student, "", "app-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/api/progress/statistics", student).Code)
	assert.Equal(t, http.StatusForbidden, do(a, http.MethodPost, "/api/admin/questions/import", student).Code)
}

func TestConfigCallbacksApplyReload(t *testing.T) {
	a := newTestApp(t)

	next := *a.Config
	next.Quiz.SessionTimeout = 5 * time.Minute
	a.applyConfig(&next)

	assert.Equal(t, 5*time.Minute, a.services.quiz.SessionTimeout())
}
