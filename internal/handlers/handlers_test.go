package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/redacaolab/redator/internal/apperr"
)

func postJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestExtractRequiresURL(t *testing.T) {
	app := fiber.New()
	app.Post("/api/extract", NewExtractHandler(nil, nil).Handle)

	if status := postJSON(t, app, "/api/extract", `{}`); status != fiber.StatusBadRequest {
		t.Errorf("missing url: status %d, want 400", status)
	}
	if status := postJSON(t, app, "/api/extract", `nao é json`); status != fiber.StatusBadRequest {
		t.Errorf("invalid body: status %d, want 400", status)
	}
}

func TestSearchNewsRequiresKeyword(t *testing.T) {
	app := fiber.New()
	app.Post("/api/search-news", NewNewsHandler(nil).Handle)

	if status := postJSON(t, app, "/api/search-news", `{"limit":5}`); status != fiber.StatusBadRequest {
		t.Errorf("missing keyword: status %d, want 400", status)
	}
}

func TestRewriteRequiresURL(t *testing.T) {
	app := fiber.New()
	app.Post("/api/rewrite-content", NewRewriteHandler(nil, nil).Handle)

	if status := postJSON(t, app, "/api/rewrite-content", `{"tone":"formal"}`); status != fiber.StatusBadRequest {
		t.Errorf("missing url: status %d, want 400", status)
	}
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.NotFound("x"), fiber.StatusNotFound},
		{apperr.Forbidden(), fiber.StatusForbidden},
		{apperr.Timeout("o site"), fiber.StatusGatewayTimeout},
		{apperr.InsufficientContent(), fiber.StatusUnprocessableEntity},
		{apperr.UnverifiedClaim("tema"), fiber.StatusUnprocessableEntity},
		{apperr.Upstream("falhou", nil), fiber.StatusBadGateway},
	}

	for _, c := range cases {
		app := fiber.New()
		app.Get("/err", func(ctx *fiber.Ctx) error {
			return respondError(ctx, c.err)
		})
		resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != c.status {
			t.Errorf("error %v: status %d, want %d", c.err, resp.StatusCode, c.status)
		}
	}
}
