package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/avereen/studylog/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(t *testing.T) (*gin.Engine, *iauth.JWTService) {
	t.Helper()

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret: "middleware-test-secret",
		Issuer: "studylog",
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", Auth(jwtSvc), func(c *gin.Context) {
		accountID, ok := AccountID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"account_id": accountID})
	})

	return r, jwtSvc
}

func perform(r *gin.Engine, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidBearerToken(t *testing.T) {
	r, jwtSvc := newAuthRouter(t)

	token, err := jwtSvc.GenerateAccessToken(iauth.AccessTokenInput{
		AccountID: "account-1",
		SessionID: "session-1",
	})
	require.NoError(t, err)

	w := perform(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "account-1")
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := perform(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	r, jwtSvc := newAuthRouter(t)

	token, err := jwtSvc.GenerateAccessToken(iauth.AccessTokenInput{AccountID: "account-1"})
	require.NoError(t, err)

	for _, header := range []string{"Basic " + token, token, "Bearer"} {
		w := perform(r, header)
		require.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	r, jwtSvc := newAuthRouter(t)

	token, err := jwtSvc.GenerateAccessToken(iauth.AccessTokenInput{AccountID: "account-1"})
	require.NoError(t, err)

	w := perform(r, "Bearer "+token+"x")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
