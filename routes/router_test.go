package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contenthub/config"
	"contenthub/models"
	"contenthub/utils"
	"contenthub/weather"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	utils.Logger = logger
	utils.Sugar = logger.Sugar()
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		AppEnv:             "test",
		UploadDir:          t.TempDir(),
		RateLimitWindowMin: 15,
		RateLimitMax:       1000,
		WeatherCacheTTLSec: 600,
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(upstream.Close)
	weatherSvc := weather.NewService(weather.NewClient(upstream.URL, "k"), utils.NewTTLCache(0))

	return SetupRouter(db, weatherSvc)
}

func request(t *testing.T, r *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response: %v: %s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func registerAndLogin(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	payload := fmt.Sprintf(`{"name":%q,"email":%q,"password":"secret1"}`, name, email)
	rec, _ := request(t, r, http.MethodPost, "/api/auth/register", "", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, env := request(t, r, http.MethodPost, "/api/auth/login", "", fmt.Sprintf(`{"email":%q,"password":"secret1"}`, email))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" {
		t.Fatalf("expected login token, body: %s", rec.Body.String())
	}
	return data.Token
}

func TestAuthFlow(t *testing.T) {
	r := newTestApp(t)
	// Tokens embed only the user id and role, so a token revoked here
	// must not share its id with tokens minted in other tests.
	registerAndLogin(t, r, "Filler One", "filler1@x.com")
	registerAndLogin(t, r, "Filler Two", "filler2@x.com")
	token := registerAndLogin(t, r, "Alice", "alice@x.com")

	rec, env := request(t, r, http.MethodGet, "/api/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "alice@x.com" || me.Role != "user" {
		t.Fatalf("unexpected me payload: %s", env.Data)
	}

	rec, _ = request(t, r, http.MethodPost, "/api/auth/logout", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}

	rec, _ = request(t, r, http.MethodGet, "/api/auth/me", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := newTestApp(t)

	rec, env := request(t, r, http.MethodPost, "/api/auth/register", "", `{"name":"A","email":"bad","password":"123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Success {
		t.Fatalf("expected success=false")
	}
	if len(env.Errors) == 0 {
		t.Fatalf("expected field errors, got none: %s", rec.Body.String())
	}
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	r := newTestApp(t)
	aliceToken := registerAndLogin(t, r, "Alice", "alice@x.com")
	bobToken := registerAndLogin(t, r, "Bob", "bob@x.com")

	form := url.Values{}
	form.Set("title", "Hello")
	form.Set("content", "First post")
	form.Add("tags", "go")
	form.Add("tags", "web")
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			ID     uint     `json:"id"`
			Title  string   `json:"title"`
			Tags   []string `json:"tags"`
			Author struct {
				Name string `json:"name"`
			} `json:"author"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created post: %v", err)
	}
	if created.Data.Title != "Hello" || created.Data.Author.Name != "Alice" {
		t.Fatalf("unexpected created post: %s", rec.Body.String())
	}
	postPath := fmt.Sprintf("/api/posts/%d", created.Data.ID)

	// Anonymous reads are allowed.
	if rec, _ := request(t, r, http.MethodGet, "/api/posts", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("list posts: expected 200, got %d", rec.Code)
	}
	if rec, _ := request(t, r, http.MethodGet, postPath, "", ""); rec.Code != http.StatusOK {
		t.Fatalf("get post: expected 200, got %d", rec.Code)
	}

	// Anonymous writes are not.
	if rec, _ := request(t, r, http.MethodPost, "/api/posts", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", rec.Code)
	}

	// Bob cannot delete Alice's post.
	if rec, _ := request(t, r, http.MethodDelete, postPath, bobToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: expected 403, got %d", rec.Code)
	}

	// Bob can comment and like.
	rec2, env := request(t, r, http.MethodPost, postPath+"/comments", bobToken, `{"text":"nice"}`)
	if rec2.Code != http.StatusOK {
		t.Fatalf("comment: expected 200, got %d: %s", rec2.Code, rec2.Body.String())
	}
	var commented struct {
		Comments []struct {
			Text string `json:"text"`
		} `json:"comments"`
	}
	if err := json.Unmarshal(env.Data, &commented); err != nil {
		t.Fatalf("decode commented post: %v", err)
	}
	if len(commented.Comments) != 1 || commented.Comments[0].Text != "nice" {
		t.Fatalf("unexpected comments: %s", env.Data)
	}

	rec2, env = request(t, r, http.MethodPut, postPath+"/like", bobToken, "")
	if rec2.Code != http.StatusOK {
		t.Fatalf("like: expected 200, got %d: %s", rec2.Code, rec2.Body.String())
	}
	var liked struct {
		Likes []uint `json:"likes"`
	}
	if err := json.Unmarshal(env.Data, &liked); err != nil {
		t.Fatalf("decode liked post: %v", err)
	}
	if len(liked.Likes) != 1 {
		t.Fatalf("expected one like, got %v", liked.Likes)
	}

	// Alice deletes her own post.
	if rec, _ := request(t, r, http.MethodDelete, postPath, aliceToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("own delete: expected 200, got %d", rec.Code)
	}
	if rec, _ := request(t, r, http.MethodGet, postPath, "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	r := newTestApp(t)
	token := registerAndLogin(t, r, "Alice", "alice@x.com")

	if rec, _ := request(t, r, http.MethodGet, "/api/users", token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("list users as user: expected 403, got %d", rec.Code)
	}
	if rec, _ := request(t, r, http.MethodGet, "/api/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("list users anonymously: expected 401, got %d", rec.Code)
	}
}

func TestWeatherUnknownCity(t *testing.T) {
	r := newTestApp(t)

	rec, env := request(t, r, http.MethodGet, "/api/weather/current/Nowhere", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Message != "City not found" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestApp(t)

	rec, env := request(t, r, http.MethodGet, "/api/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.Success {
		t.Fatalf("expected success=false")
	}
	if !strings.Contains(env.Message, "/api/nope") {
		t.Fatalf("expected path in message, got %q", env.Message)
	}
}
