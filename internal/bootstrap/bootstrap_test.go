package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseapi/internal/bootstrap"
	"github.com/yigit/courseapi/internal/config"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "courses.db")
	cfg.JWT.Secret = "e2e-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "course-api-test"

	lgr := zerolog.Nop()

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	require.NoError(t, err)

	return &apiClient{t: t, router: bootstrap.SetupRouter(cfg, deps, lgr)}
}

func (a *apiClient) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *apiClient) registerAndLogin(username string) string {
	a.t.Helper()

	w, _ := a.do(http.MethodPost, "/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cretpass",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	return a.login(username)
}

func (a *apiClient) login(username string) string {
	a.t.Helper()

	w, env := a.do(http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": "s3cretpass"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(a.t, login.Token)
	return login.Token
}

type courseBody struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Students []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"students"`
}

type studentBody struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Courses []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"courses"`
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully", env.Message)
	assert.NotContains(t, string(env.Data), "s3cretpass")
	assert.NotContains(t, string(env.Data), "password")

	t.Run("duplicate username", func(t *testing.T) {
		w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{
			"username": "alice", "email": "other@example.com", "password": "s3cretpass",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Username is already in use", env.Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{
			"username": "bob", "email": "alice@example.com", "password": "s3cretpass",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email is already in use", env.Message)
	})

	t.Run("invalid body lists failing fields", func(t *testing.T) {
		w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{"username": "carol", "email": "nope", "password": "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var fields []struct {
			Field string `json:"field"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &fields))
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, f.Field)
		}
		assert.ElementsMatch(t, []string{"email", "password"}, names)
	})

	t.Run("login reuses the current token", func(t *testing.T) {
		login := func() string {
			w, env := api.do(http.MethodPost, "/auth/login", "", gin.H{"username": "alice", "password": "s3cretpass"})
			require.Equal(t, http.StatusOK, w.Code)
			var resp struct {
				Token     string `json:"token"`
				TokenType string `json:"tokenType"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &resp))
			assert.Equal(t, "Bearer", resp.TokenType)
			return resp.Token
		}
		assert.Equal(t, login(), login())
	})

	t.Run("wrong password and unknown user look alike", func(t *testing.T) {
		wWrong, envWrong := api.do(http.MethodPost, "/auth/login", "", gin.H{"username": "alice", "password": "wrong-pass"})
		wUnknown, envUnknown := api.do(http.MethodPost, "/auth/login", "", gin.H{"username": "ghost", "password": "s3cretpass"})

		assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
		assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)
		assert.Equal(t, envWrong.Message, envUnknown.Message)
	})
}

func TestRegisterRejectsMalformedInput(t *testing.T) {
	api := newTestAPI(t)

	fieldErrors := func(t *testing.T, env envelope) map[string]string {
		var fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &fields))
		byField := make(map[string]string, len(fields))
		for _, f := range fields {
			byField[f.Field] = f.Message
		}
		return byField
	}

	t.Run("password over 72 bytes", func(t *testing.T) {
		w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{
			"username": "longpass", "email": "longpass@example.com", "password": strings.Repeat("a", 80),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password must be at most 72 characters", fieldErrors(t, env)["password"])
	})

	t.Run("multibyte password within 72 characters but over 72 bytes", func(t *testing.T) {
		w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{
			"username": "runes", "email": "runes@example.com", "password": strings.Repeat("é", 40),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password must be at most 72 bytes", env.Message)
	})

	t.Run("blank username", func(t *testing.T) {
		w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{
			"username": "   ", "email": "blank@example.com", "password": "s3cretpass",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "username cannot be blank", fieldErrors(t, env)["username"])
	})

	t.Run("username is stored trimmed", func(t *testing.T) {
		w, env := api.do(http.MethodPost, "/auth/register", "", gin.H{
			"username": "  dave ", "email": "dave@example.com", "password": "s3cretpass",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var user struct {
			Username string `json:"username"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &user))
		assert.Equal(t, "dave", user.Username)
		assert.NotEmpty(t, api.login("dave"))
	})
}

func TestLoginTimingDoesNotRevealUnknownUsers(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin("alice")

	timeLogin := func(username string) time.Duration {
		start := time.Now()
		w, _ := api.do(http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": "wrong-pass"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		return time.Since(start)
	}

	timeLogin("ghost")

	var known, unknown time.Duration
	for i := 0; i < 3; i++ {
		known += timeLogin("alice")
		unknown += timeLogin("ghost")
	}

	assert.Greater(t, int64(unknown), int64(known)/4, "known=%s unknown=%s", known, unknown)
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin("alice")

	w, _ := api.do(http.MethodGet, "/courses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := api.do(http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(env.Data))

	w, _ = api.do(http.MethodGet, "/courses", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	fresh := api.login("alice")
	assert.NotEqual(t, token, fresh)

	w, _ = api.do(http.MethodGet, "/courses", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/courses", "/courses/1", "/students", "/students/1"} {
		w, env := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, http.StatusUnauthorized, env.Status, path)
	}

	w, _ := api.do(http.MethodGet, "/courses", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCourseAndStudentLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin("alice")

	w, env := api.do(http.MethodPost, "/courses", token, gin.H{"name": "Math"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var math courseBody
	require.NoError(t, json.Unmarshal(env.Data, &math))
	assert.Equal(t, "Math", math.Name)
	assert.NotNil(t, math.Students)
	assert.Empty(t, math.Students)

	w, env = api.do(http.MethodGet, "/courses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"name":"Math","students":[]}]`, math.ID), string(env.Data))

	w, _ = api.do(http.MethodPost, "/courses", token, gin.H{"name": "Math"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(http.MethodPost, "/students", token, gin.H{"name": "Ada", "course_ids": []int64{math.ID, 999}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ada studentBody
	require.NoError(t, json.Unmarshal(env.Data, &ada))
	require.Len(t, ada.Courses, 1)
	assert.Equal(t, math.ID, ada.Courses[0].ID)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/courses/%d", math.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &math))
	require.Len(t, math.Students, 1)
	assert.Equal(t, "Ada", math.Students[0].Name)

	w, env = api.do(http.MethodPut, fmt.Sprintf("/courses/%d", math.ID), token, gin.H{"name": "Algebra"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &math))
	assert.Equal(t, "Algebra", math.Name)
	assert.Len(t, math.Students, 1, "renaming keeps the enrolled students")

	w, env = api.do(http.MethodPut, fmt.Sprintf("/courses/%d", math.ID), token, gin.H{"student_ids": []int64{}})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &math))
	assert.Empty(t, math.Students)

	w, env = api.do(http.MethodDelete, fmt.Sprintf("/courses/%d", math.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
	assert.Empty(t, env.Message)

	w, _ = api.do(http.MethodGet, fmt.Sprintf("/courses/%d", math.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/students/%d", ada.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &ada))
	assert.Equal(t, "Ada", ada.Name)
	assert.Empty(t, ada.Courses)
}

func TestErrorResponses(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin("alice")

	w, env := api.do(http.MethodDelete, "/courses/4242", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "Course with ID 4242 not found", env.Message)

	w, _ = api.do(http.MethodGet, "/students/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPut, "/students/0", token, gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(http.MethodPatch, "/courses", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	tooMany := make([]int64, 1001)
	for i := range tooMany {
		tooMany[i] = int64(i + 1)
	}
	w, env = api.do(http.MethodPost, "/courses", token, gin.H{"name": "Crowded", "student_ids": tooMany})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", env.Message)

	w, _ = api.do(http.MethodPost, "/students", token, gin.H{"name": "Ada"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(http.MethodPut, "/students/1", token, gin.H{"course_ids": tooMany})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodGet, "/health", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "courseapi_http_requests_total")
}
