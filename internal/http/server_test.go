package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/authors"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/genres"
	"github.com/mrlokans/bookshelf/internal/database/readinglist"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// testServer is the full router over a throwaway SQLite database.
type testServer struct {
	router      *gin.Engine
	db          *database.Database
	books       *books.Repository
	authors     *authors.Repository
	genres      *genres.Repository
	users       *users.Repository
	readingList *readinglist.Repository
	auth        *auth.Service
}

func testAuthConfig(mode config.AuthMode) config.Auth {
	return config.Auth{
		Mode:               mode,
		JWTSecret:          "test-secret",
		BcryptCost:         4,
		LoginRatePerMinute: 60,
		LoginBurst:         3,
	}
}

func setupTestServer(t *testing.T, mode config.AuthMode) (*testServer, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     dbPath,
		LogLevel: "silent",
	})
	require.NoError(t, err)

	s := &testServer{
		db:          db,
		books:       books.NewRepository(db.DB),
		authors:     authors.NewRepository(db.DB),
		genres:      genres.NewRepository(db.DB),
		users:       users.NewRepository(db.DB),
		readingList: readinglist.NewRepository(db.DB),
	}

	authCfg := testAuthConfig(mode)
	s.auth, err = auth.NewService(s.users, authCfg)
	require.NoError(t, err)

	limiter := auth.NewRateLimiter(auth.RateLimitConfig{PerMinute: authCfg.LoginRatePerMinute, Burst: authCfg.LoginBurst})

	s.router = NewRouter(RouterConfig{
		Books:          s.books,
		Authors:        s.authors,
		Genres:         s.genres,
		Users:          s.users,
		ReadingList:    s.readingList,
		Database:       db,
		AuthorPruner:   s.authors,
		GenrePruner:    s.genres,
		Importer:       s.books,
		AuthService:    s.auth,
		AuthMiddleware: auth.NewMiddleware(s.auth, authCfg),
		AuthConfig:     authCfg,
		RateLimiter:    limiter,
		Catalog:        config.Catalog{DefaultLimit: 12, MaxLimit: 100, ReadingListMaxLimit: 50},
		Metrics:        NewMetrics(),
		MetricsPath:    "/metrics",
		Version:        "test",
	})

	cleanup := func() {
		limiter.Stop()
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}
	return s, cleanup
}

// do sends body (JSON-encoded unless nil) with an optional bearer token.
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createBook(t *testing.T, title, isbn string, authorNames, genreNames []string, rating *float64) *entities.Book {
	t.Helper()
	book, err := s.books.CreateBook(books.BookInput{
		Title:         title,
		ISBN:          isbn,
		Authors:       authorNames,
		Genres:        genreNames,
		AverageRating: rating,
	})
	require.NoError(t, err)
	return book
}

// login registers a user with the given role and returns its id and token.
func (s *testServer) login(t *testing.T, email string, role entities.UserRole) (uint, string) {
	t.Helper()
	user, err := s.auth.CreateUser(email, "password123", "", role)
	require.NoError(t, err)
	result, err := s.auth.Login(email, "password123")
	require.NoError(t, err)
	return user.ID, result.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func ptr[T any](v T) *T {
	return &v
}
