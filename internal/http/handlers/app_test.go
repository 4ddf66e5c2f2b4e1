package handlers_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"decohogar/internal/domain"
	"decohogar/internal/http/handlers"
	applog "decohogar/internal/log"
)

func TestErrorHandlerHidesInternals(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := applog.L()
	applog.Set(zap.New(core))
	t.Cleanup(func() { applog.Set(prev) })

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.Wrap(errors.New("db timeout: secret trace"), "load pedido")
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return errors.Wrap(domain.Validation("nombre is required"), "register")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "secret")
	assert.Contains(t, string(body), "Something went wrong")

	entries := logs.FilterMessage("server.error").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Contains(t, ctx["error"], "secret trace", "details stay in the logs")
	assert.NotEmpty(t, ctx["req_id"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/validation", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":{"kind":"ValidationError","message":"nombre is required"}}`, string(body))
	assert.Equal(t, 1, logs.FilterMessage("server.error").Len(), "client errors are not logged as server errors")
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t, handlers.AppConfig{})
	r := h.do(t, fiber.MethodGet, "/no/such/route", nil, "")
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "NotFound", r.errorKind(t))
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, handlers.AppConfig{})
	r := h.do(t, fiber.MethodGet, "/healthz", nil, "")
	assert.Equal(t, fiber.StatusOK, r.status)
	assert.JSONEq(t, `{"ok":true}`, string(r.body))
}

func TestLoginIsThrottled(t *testing.T) {
	h := newHarness(t, handlers.AppConfig{LoginLimit: handlers.Limit{Max: 2, Window: time.Minute}})
	creds := map[string]any{"email": "nadie@example.com", "password": testPassword}

	for i := 0; i < 2; i++ {
		r := h.do(t, fiber.MethodPost, "/usuarios/login", creds, "")
		assert.Equal(t, fiber.StatusUnauthorized, r.status, "attempt %d", i)
	}
	r := h.do(t, fiber.MethodPost, "/usuarios/login", creds, "")
	assert.Equal(t, fiber.StatusTooManyRequests, r.status)
	assert.Equal(t, "TooManyRequests", r.errorKind(t))
	assert.Equal(t, 1, h.logged("rate.login.hit"))

	r = h.do(t, fiber.MethodGet, "/productos", nil, "")
	assert.Equal(t, fiber.StatusOK, r.status, "other routes are not throttled")
}

func TestGlobalRateLimit(t *testing.T) {
	h := newHarness(t, handlers.AppConfig{RateLimit: handlers.Limit{Max: 3, Window: time.Minute}})
	for i := 0; i < 3; i++ {
		r := h.do(t, fiber.MethodGet, "/categorias", nil, "")
		require.Equal(t, fiber.StatusOK, r.status, "hit rate limit too early at %d", i)
	}
	r := h.do(t, fiber.MethodGet, "/categorias", nil, "")
	assert.Equal(t, fiber.StatusTooManyRequests, r.status)
	assert.Equal(t, 1, h.logged("rate.limit.hit"))

	r = h.do(t, fiber.MethodGet, "/healthz", nil, "")
	assert.Equal(t, fiber.StatusOK, r.status, "health checks bypass the limiter")
}

func TestBodySizeLimit(t *testing.T) {
	h := newHarness(t, handlers.AppConfig{BodyLimit: 1024})
	payload := `{"nombre":"` + strings.Repeat("A", 4096) + `"}`

	req := httptest.NewRequest(fiber.MethodPost, "/usuarios/registro", bytes.NewReader([]byte(payload)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := h.app.Test(req, -1)
	// fasthttp may drop the connection instead of answering; both are a rejection.
	if err != nil {
		msg := err.Error()
		assert.True(t, strings.Contains(msg, "body size exceeds") || strings.Contains(msg, "too large"), msg)
		return
	}
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestAccessLogCarriesRequestContext(t *testing.T) {
	h := newHarness(t, handlers.AppConfig{})
	id, tok := h.signup(t, "yolanda@example.com")
	h.logs.TakeAll()

	h.do(t, fiber.MethodGet, "/usuarios/me", nil, tok)
	h.do(t, fiber.MethodGet, "/productos/no-existe", nil, "")

	entries := h.logs.FilterMessage("request").All()
	require.Len(t, entries, 2)

	me := entries[0].ContextMap()
	assert.Equal(t, "/usuarios/me", me["path"])
	assert.EqualValues(t, fiber.StatusOK, me["status"])
	assert.Equal(t, id, me["user_id"])
	assert.NotEmpty(t, me["req_id"])

	missing := entries[1].ContextMap()
	assert.EqualValues(t, fiber.StatusNotFound, missing["status"], "logged status is the one sent")
	assert.NotContains(t, missing, "user_id")

	for _, e := range h.logs.All() {
		for _, v := range e.ContextMap() {
			if s, ok := v.(string); ok {
				assert.NotContains(t, s, tok, "tokens are never logged")
			}
		}
	}
}
