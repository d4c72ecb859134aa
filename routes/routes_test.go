package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"organize.it/configs"
	"organize.it/database/dbtest"
	"organize.it/services"
	"organize.it/views"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// client her istekte önceki yanıtların cookie'lerini geri gönderir.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &configs.AppConfig{
		Env:               "test",
		BaseURL:           "http://organize.test",
		Location:          time.UTC,
		SessionExpiration: time.Hour,
		Storage: configs.StorageConfig{
			Driver:            "local",
			UploadDir:         filepath.Join(t.TempDir(), "uploads"),
			PublicPath:        "/profile_pictures",
			AllowedExtensions: []string{"png", "jpg"},
			MaxUploadBytes:    1 << 20,
		},
		Jobs: configs.JobsConfig{NotificationKeep: 50},
	}
	storage, err := services.NewLocalStorageService(cfg.Storage)
	require.NoError(t, err)
	svc := services.New(dbtest.New(t), cfg, services.NewMailService(cfg.Mail), storage)

	app := fiber.New(fiber.Config{Views: views.NewEngine(cfg.Location)})
	SetupRoutes(app, cfg, svc)
	return app
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, cookies: map[string]string{}}
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	for _, cookie := range resp.Cookies() {
		if cookie.Value == "" || cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now())) {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie.Value
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *client) get(target string) (*http.Response, string) {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func registerForm(username string) url.Values {
	return url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
		"first_name":       {"First"},
		"last_name":        {"Last"},
	}
}

func TestAnonymousAccess(t *testing.T) {
	c := newClient(t, newApp(t))

	resp, body := c.get("/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Plan events")

	resp, _ = c.get("/home")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fhome", resp.Header.Get("Location"))

	resp, _ = c.get("/invitation/1")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register?next=%2Finvitation%2F1", resp.Header.Get("Location"))
}

func TestRegisterCreateEventAndLogout(t *testing.T) {
	c := newClient(t, newApp(t))

	resp, _ := c.post("/register", registerForm("alice"))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"))
	require.Contains(t, c.cookies, "organizeit_session")

	resp, body := c.get("/home")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your account has been created!")

	resp, _ = c.get("/register?next=/home")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"), "oturum açık kullanıcı kayıt sayfasını göremez")

	resp, _ = c.post("/create-event", url.Values{
		"title":         {"Board game night"},
		"description":   {"Bring snacks"},
		"date":          {time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02T15:04")},
		"invite_method": {services.InviteMethodEmail},
		"guest_email":   {"guest@example.com"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/event/1", resp.Header.Get("Location"))

	resp, body = c.get("/event/1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Board game night")
	assert.Contains(t, body, "Event was created successfully!")

	resp, _ = c.post("/logout", url.Values{})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = c.get("/home")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestLoggedInUserReachesAuthenticatedRoutes(t *testing.T) {
	c := newClient(t, newApp(t))
	resp, _ := c.post("/register", registerForm("alice"))
	require.Equal(t, "/home", resp.Header.Get("Location"))

	resp, _ = c.get("/create-event")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = c.post("/create-event", url.Values{
		"title":       {"Hike"},
		"description": {"Trail at dawn"},
		"date":        {time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02T15:04")},
	})
	require.Equal(t, "/event/1", resp.Header.Get("Location"))

	for _, target := range []string{"/event/1", "/user/1", "/search_friend?search_term=a", "/edit-event/1"} {
		resp, _ = c.get(target)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, target)
	}

	resp, _ = c.post("/event/1/add-task", url.Values{"task_title": {"Pack water"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/event/1", resp.Header.Get("Location"))

	resp, body := c.get("/event/1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Pack water")
	assert.NotContains(t, body, "You are already logged in.")
}

func TestInvitationFlowThroughRegistration(t *testing.T) {
	app := newApp(t)
	alice := newClient(t, app)
	resp, _ := alice.post("/register", registerForm("alice"))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	resp, _ = alice.post("/create-event", url.Values{
		"title":         {"Picnic"},
		"description":   {"Sandwiches in the park"},
		"date":          {time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02T15:04")},
		"invite_method": {services.InviteMethodEmail},
		"guest_email":   {"bob@example.com"},
	})
	require.Equal(t, "/event/1", resp.Header.Get("Location"))

	bob := newClient(t, app)
	resp, _ = bob.get("/invitation/1")
	require.Equal(t, "/register?next=%2Finvitation%2F1", resp.Header.Get("Location"))

	resp, _ = bob.post("/register?next=%2Finvitation%2F1", registerForm("bob"))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/invitation/1", resp.Header.Get("Location"))

	resp, body := bob.get("/invitation/1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "You are invited to Picnic")

	resp, _ = bob.post("/invitation/1", url.Values{"action": {"accept"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/event/1", resp.Header.Get("Location"))

	resp, body = bob.get("/event/1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Picnic")

	resp, body = bob.get("/invitation/1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "You have accepted this invitation.")
}

func TestNotFoundAndMetrics(t *testing.T) {
	c := newClient(t, newApp(t))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "application/json")
	resp, body := c.do(req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"error"`)

	req = httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "text/html")
	resp, body = c.do(req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")

	resp, body = c.get("/metrics")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "organizeit_http_requests_total")
}
