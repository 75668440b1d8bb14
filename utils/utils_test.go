package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	BcryptCost = bcrypt.MinCost
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	tok, err := GenerateToken("secret", id.String(), time.Hour)
	require.NoError(t, err)

	got, err := ParseToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseToken("other-secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tok, err := GenerateToken("secret", uuid.NewString(), -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateTokenNeedsSecret(t *testing.T) {
	_, err := GenerateToken("", "x", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/who", mw, func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "id": id.String()})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter(AuthMiddleware("secret"))
	id := uuid.New()
	tok, _ := GenerateToken("secret", id.String(), time.Hour)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"bearer", "Bearer " + tok, http.StatusOK},
		{"raw", tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), id.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := newAuthRouter(OptionalAuthMiddleware("secret"))

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	id := uuid.New()
	tok, _ := GenerateToken("secret", id.String(), time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestDateKeys(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, "2024-03", MonthKey(ts))
	assert.Equal(t, "2024-03-01", DayKey(ts))
	assert.Equal(t, 3, DaysBetween(ts, ts.AddDate(0, 0, 3)))
	assert.Equal(t, ts.Add(-48*time.Hour), DaysFrom(ts, -2))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+1 (555) 010-1234"))
	assert.True(t, ValidatePhone("5550101234"))
	assert.False(t, ValidatePhone("phone"))
	assert.True(t, IsE164("+44 20 7946 0958"))
	assert.False(t, IsE164("5550101234"))
}
