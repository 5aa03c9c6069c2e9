package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/comfortbites/backend/internal/api"
	"github.com/comfortbites/backend/internal/middleware"
	"github.com/comfortbites/backend/internal/router"
	"github.com/comfortbites/backend/internal/service"
	"github.com/comfortbites/backend/internal/testhelpers"
)

// setupServer builds the full router against an in-memory database and
// session store, so the tests exercise the same middleware chain as
// production
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	sessions := service.NewMemorySessionStore()
	t.Cleanup(sessions.Close)

	users := service.NewUserService(db)
	recipes := service.NewRecipeService(db)
	auth := service.NewAuthService(users, sessions)

	imageStore, err := service.NewDiskImageStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	images := service.NewImageService(imageStore, nil)

	authHandler := api.NewAuthHandler(auth, nil)
	recipeHandler := api.NewRecipeHandler(recipes, users, images, nil)

	engine := router.SetupRouter(db, auth, authHandler, recipeHandler, nil, "")
	return engine, db
}

// doJSON performs a request with an optional JSON body and session cookie
func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie from a signup or login response
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatal("response carries no session cookie")
	return nil
}

// signupUser registers a user and returns their session cookie
func signupUser(t *testing.T, engine *gin.Engine, username string) *http.Cookie {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/auth/signup", gin.H{
		"username": username,
		"password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return sessionCookie(t, w)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
