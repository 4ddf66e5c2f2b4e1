package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"decohogar/internal/auth"
	"decohogar/internal/cache"
	"decohogar/internal/http/handlers"
	applog "decohogar/internal/log"
	"decohogar/internal/repos"
)

const testPassword = "Sofa-2024!"

type harness struct {
	app   *fiber.App
	store *repos.Store
	logs  *observer.ObservedLogs
}

// newHarness builds the full app on an in-memory database and captures the
// package logger. Tests using it must not run in parallel.
func newHarness(t *testing.T, cfg handlers.AppConfig) *harness {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	core, logs := observer.New(zap.InfoLevel)
	prev := applog.L()
	applog.Set(zap.New(core))
	t.Cleanup(func() { applog.Set(prev) })

	store := repos.NewStore(db)
	tokens := auth.NewTokens("handler-test-secret", "decohogar", 15*time.Minute, time.Hour)
	deps := handlers.NewDeps(store, auth.NewHasher(1000), tokens, cache.Nop{})
	return &harness{app: handlers.NewApp(deps, cfg), store: store, logs: logs}
}

type response struct {
	status int
	body   []byte
}

func (r response) json(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(r.body, &m), "body: %s", r.body)
	return m
}

func (r response) list(t *testing.T) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(r.body, &l), "body: %s", r.body)
	return l
}

// errorKind returns error.kind from an error body.
func (r response) errorKind(t *testing.T) string {
	t.Helper()
	e, ok := r.json(t)["error"].(map[string]any)
	require.True(t, ok, "not an error body: %s", r.body)
	kind, _ := e["kind"].(string)
	return kind
}

// do sends body as JSON unless it is already a string.
func (h *harness) do(t *testing.T, method, path string, body any, token string) response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw}
}

// signup registers and logs in a user, returning its id and access token.
func (h *harness) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	r := h.do(t, fiber.MethodPost, "/usuarios/registro", map[string]any{
		"nombre": "Marta", "apellido": "Gil", "email": email,
		"password": testPassword, "password2": testPassword,
		"direccion": "Calle Mayor 1, Madrid",
	}, "")
	require.Equal(t, fiber.StatusCreated, r.status, "register: %s", r.body)
	id, _ := r.json(t)["id"].(string)

	r = h.do(t, fiber.MethodPost, "/usuarios/login", map[string]any{"email": email, "password": testPassword}, "")
	require.Equal(t, fiber.StatusOK, r.status, "login: %s", r.body)
	access, _ := r.json(t)["access"].(string)
	require.NotEmpty(t, access)
	return id, access
}

// product creates a category and a product in it through the API.
func (h *harness) product(t *testing.T, token string, body map[string]any) string {
	t.Helper()
	if _, ok := body["categoria"]; !ok {
		name, _ := body["nombre"].(string)
		r := h.do(t, fiber.MethodPost, "/categorias", map[string]any{"nombre": "Cat " + name}, token)
		require.Equal(t, fiber.StatusCreated, r.status, "category: %s", r.body)
		body["categoria"] = r.json(t)["id"]
	}
	r := h.do(t, fiber.MethodPost, "/productos", body, token)
	require.Equal(t, fiber.StatusCreated, r.status, "product: %s", r.body)
	id, _ := r.json(t)["id"].(string)
	return id
}

func (h *harness) logged(message string) int {
	return h.logs.FilterMessage(message).Len()
}
