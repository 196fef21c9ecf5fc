package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasker-be/internal/apperrors"
	"tasker-be/internal/entities"
	"tasker-be/internal/jwt"
)

// stubUserRepo only implements the lookup the auth gate needs
type stubUserRepo struct {
	user   *entities.User
	tokens map[string]bool
}

func (s *stubUserRepo) FindByIDAndToken(id, token string) (*entities.User, error) {
	if s.user != nil && s.user.ID == id && s.tokens[token] {
		return s.user, nil
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) Create(name, email, passwordHash string, age int) (*entities.User, error) {
	return nil, nil
}
func (s *stubUserRepo) FindByEmail(email string) (*entities.User, error) { return nil, nil }
func (s *stubUserRepo) FindByID(id string) (*entities.User, error)       { return nil, nil }
func (s *stubUserRepo) Update(id string, name, email, passwordHash *string, age *int) (*entities.User, error) {
	return nil, nil
}
func (s *stubUserRepo) Delete(id string) error                       { return nil }
func (s *stubUserRepo) AddToken(userID, token string) error          { return nil }
func (s *stubUserRepo) RemoveToken(userID, token string) error       { return nil }
func (s *stubUserRepo) ClearTokens(userID string) error              { return nil }
func (s *stubUserRepo) ListTokens(userID string) ([]string, error)   { return nil, nil }
func (s *stubUserRepo) SetAvatar(userID string, avatar []byte) error { return nil }
func (s *stubUserRepo) GetAvatar(userID string) ([]byte, error)      { return nil, nil }

func newAuthRouter(t *testing.T, jwtService *jwt.JWTService, repo *stubUserRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(jwtService, repo), func(c *gin.Context) {
		user := c.MustGet(ContextUserKey).(*entities.User)
		token := c.GetString(ContextTokenKey)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": token})
	})
	return router
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Success(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Hour)
	token, err := jwtService.GenerateToken("user-1")
	require.NoError(t, err)

	repo := &stubUserRepo{
		user:   &entities.User{ID: "user-1", Name: "Hussein"},
		tokens: map[string]bool{token: true},
	}
	router := newAuthRouter(t, jwtService, repo)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"user-1"`)
	assert.Contains(t, w.Body.String(), token)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Hour)
	validToken, err := jwtService.GenerateToken("user-1")
	require.NoError(t, err)
	// Validly signed but never added to the allow-list
	revokedToken, err := jwtService.GenerateToken("user-1")
	require.NoError(t, err)
	foreignToken, err := jwt.NewJWTService("other-secret", time.Hour).GenerateToken("user-1")
	require.NoError(t, err)
	expiredToken, err := jwt.NewJWTService("secret", -time.Minute).GenerateToken("user-1")
	require.NoError(t, err)

	repo := &stubUserRepo{
		user:   &entities.User{ID: "user-1"},
		tokens: map[string]bool{validToken: true},
	}
	router := newAuthRouter(t, jwtService, repo)

	tests := []struct {
		name          string
		authorization string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"bearer without token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signature", "Bearer " + foreignToken},
		{"expired", "Bearer " + expiredToken},
		{"valid signature but revoked", "Bearer " + revokedToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, tc.authorization)
			// Every failure mode produces the same uniform response
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"please authenticate"}`, w.Body.String())
		})
	}
}
