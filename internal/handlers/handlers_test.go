package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"earn-dashboard/internal/client"
	"earn-dashboard/internal/controller"
	"earn-dashboard/internal/handlers"
	"earn-dashboard/internal/notify"
	"earn-dashboard/internal/render"
	"earn-dashboard/internal/routes"
	"earn-dashboard/internal/state"
)

type testEnv struct {
	app        *fiber.App
	userStatus int
	cookies    []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/user/"):
			if env.userStatus != 0 {
				w.WriteHeader(env.userStatus)
				return
			}
			w.Write([]byte(`{"user":{"telegram_id":42,"first_name":"Rahim","balance":150,"total_ads_watched":3},
				"stats":{"today_earned":10}}`))
		case r.URL.Path == "/api/ads":
			w.Write([]byte(`{"ads":[{"id":1,"title":"Mobile App Review","duration":30,"earnings":5}]}`))
		case r.URL.Path == "/api/withdraw":
			w.Write([]byte(`{"success":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(backend.Close)

	settings := render.Settings{BotUsername: "TestEarnBot", SupportUsername: "TestSupport", MinWithdrawal: 100, AdReward: 5}
	engine := render.NewEngine()
	hub := notify.NewHub()
	registry := state.NewRegistry()
	ctrl := controller.New(client.New(backend.URL, 2*time.Second), render.New(engine, settings), hub,
		controller.Options{MinWithdrawal: 100, AdReward: 5})

	env.app = fiber.New(fiber.Config{Views: engine})
	routes.SetupRoutes(env.app, handlers.New(ctrl, hub, registry, settings), session.New(), registry)
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body any) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	for _, nc := range resp.Cookies() {
		e.setCookie(nc)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, string(out)
}

func (e *testEnv) setCookie(nc *http.Cookie) {
	for i, c := range e.cookies {
		if c.Name == nc.Name {
			e.cookies[i] = nc
			return
		}
	}
	e.cookies = append(e.cookies, nc)
}

func TestGateWithoutUser(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, "GET", "/", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "login-gate") || !strings.Contains(body, "TestEarnBot") {
		t.Errorf("gate not rendered:\n%s", body)
	}
}

func TestGateLoadsUser(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, "GET", "/?user_id=42", nil)
	if strings.Contains(body, "login-gate") {
		t.Fatal("gate shown for valid user")
	}
	for _, want := range []string{"Hi, Rahim", "৳150.00", `data-page="withdraw"`} {
		if !strings.Contains(body, want) {
			t.Errorf("shell missing %q", want)
		}
	}

}

func TestReloadWithoutUserShowsGate(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, "GET", "/?user_id=42", nil)
	if !strings.Contains(body, "Hi, Rahim") {
		t.Fatal("shell not rendered for valid user")
	}

	_, body = env.do(t, "GET", "/", nil)
	if !strings.Contains(body, "login-gate") || strings.Contains(body, "Hi, Rahim") {
		t.Errorf("reload without user_id did not gate:\n%s", body)
	}
	resp, _ := env.do(t, "POST", "/app/ads/1/watch", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("actions still allowed after gate, status = %d", resp.StatusCode)
	}
}

func TestGateLegacyPath(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, "GET", "/dashboard/42", nil)
	if !strings.Contains(body, "Hi, Rahim") {
		t.Errorf("shell not rendered:\n%s", body)
	}
}

func TestGateBackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.userStatus = http.StatusInternalServerError
	_, body := env.do(t, "GET", "/?user_id=42", nil)
	if !strings.Contains(body, "login-gate") || !strings.Contains(body, "Failed to load user data") {
		t.Errorf("expected gate with error toast:\n%s", body)
	}

	env = newTestEnv(t)
	env.userStatus = http.StatusNotFound
	_, body = env.do(t, "GET", "/?user_id=42", nil)
	if !strings.Contains(body, "login-gate") || strings.Contains(body, "Failed to load user data") {
		t.Errorf("expected silent gate:\n%s", body)
	}
}

func TestPageFragmentGated(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/?user_id=42", nil)
	env.do(t, "GET", "/", nil)

	resp, body := env.do(t, "GET", "/app/page/dashboard", nil)
	if resp.StatusCode != fiber.StatusUnauthorized || !strings.Contains(body, `"status":"gated"`) {
		t.Errorf("gated fragment: %d %s", resp.StatusCode, body)
	}
}

func TestGateToastsGoThroughNotifier(t *testing.T) {
	env := newTestEnv(t)
	env.userStatus = http.StatusBadGateway
	_, body := env.do(t, "GET", "/?user_id=42", nil)
	if !strings.Contains(body, "data-pending-toast") {
		t.Errorf("pending toast marker missing:\n%s", body)
	}
	if strings.Contains(body, `class="toast`) {
		t.Error("gate renders a static toast that never fades")
	}
	if !strings.Contains(body, "earn.notify") && !strings.Contains(body, "notify(el.dataset.message") {
		t.Error("layout notifier missing")
	}
}

func TestActionsRequireUser(t *testing.T) {
	env := newTestEnv(t)
	for _, target := range []string{"/app/ads/1/watch", "/app/withdraw"} {
		resp, body := env.do(t, "POST", target, nil)
		if resp.StatusCode != fiber.StatusUnauthorized || !strings.Contains(body, "gated") {
			t.Errorf("%s: %d %s", target, resp.StatusCode, body)
		}
	}
}

type actionResponse struct {
	Status        string            `json:"status"`
	Field         string            `json:"field"`
	Summary       map[string]string `json:"summary"`
	Notifications []struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	} `json:"notifications"`
}

func TestWatchAdEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/?user_id=42", nil)

	resp, body := env.do(t, "POST", "/app/ads/1/watch", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var res actionResponse
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatal(err)
	}
	if res.Summary["balance"] != "৳155.00" || res.Summary["total_ads_watched"] != "4" {
		t.Errorf("summary = %v", res.Summary)
	}
	if len(res.Notifications) != 2 || res.Notifications[1].Kind != "success" {
		t.Errorf("notifications = %+v", res.Notifications)
	}
}

func TestWithdrawEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/?user_id=42", nil)

	resp, body := env.do(t, "POST", "/app/withdraw", map[string]string{"method": "bkash", "mobile": "0171234567", "amount": "120"})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("invalid form status = %d", resp.StatusCode)
	}
	var res actionResponse
	json.Unmarshal([]byte(body), &res)
	if res.Field != "mobile" || len(res.Notifications) != 1 || res.Notifications[0].Kind != "error" {
		t.Errorf("invalid form response = %+v", res)
	}

	resp, body = env.do(t, "POST", "/app/withdraw", map[string]string{"method": "bkash", "mobile": "01712345678", "amount": "120"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	res = actionResponse{}
	json.Unmarshal([]byte(body), &res)
	if res.Status != "success" || res.Summary["balance"] != "৳30.00" {
		t.Errorf("response = %+v", res)
	}

	// the shell re-fetches the form after success; it must now reflect the lower balance
	_, body = env.do(t, "GET", "/app/page/withdraw", nil)
	if !strings.Contains(body, `id="min-warning"`) || !strings.Contains(body, `type="submit" disabled`) {
		t.Errorf("withdraw page not below minimum after withdrawal:\n%s", body)
	}
}

func TestPageFragment(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/?user_id=42", nil)

	resp, body := env.do(t, "GET", "/app/page/withdraw", nil)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(body, `id="withdraw-form"`) {
		t.Errorf("withdraw fragment: %d\n%s", resp.StatusCode, body)
	}
	if strings.Contains(body, "<html") {
		t.Error("fragment wrapped in layout")
	}

	_, body = env.do(t, "GET", "/app/page/earn", nil)
	if !strings.Contains(body, `data-ad-id="1"`) {
		t.Errorf("earn fragment:\n%s", body)
	}

	_, body = env.do(t, "GET", "/app/page/nope", nil)
	if body != "" {
		t.Errorf("unknown page rendered %q", body)
	}
}

func TestThemeToggle(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/?user_id=42", nil)

	_, body := env.do(t, "POST", "/app/theme", nil)
	if !strings.Contains(body, `"theme":"dark"`) {
		t.Errorf("toggle = %s", body)
	}
	_, body = env.do(t, "GET", "/?user_id=42", nil)
	if !strings.Contains(body, `data-theme="dark"`) || !strings.Contains(body, "Hi, Rahim") {
		t.Error("theme not applied to shell")
	}
}

func TestThemeToggleWithoutUser(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, "POST", "/app/theme", nil)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(body, `"theme":"dark"`) {
		t.Fatalf("gated toggle: %d %s", resp.StatusCode, body)
	}
	_, body = env.do(t, "GET", "/", nil)
	if !strings.Contains(body, `data-theme="dark"`) || !strings.Contains(body, "login-gate") {
		t.Error("theme not applied to gate")
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, "GET", "/health", nil)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("health: %d %s", resp.StatusCode, body)
	}
}
