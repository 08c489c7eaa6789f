package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protected() http.Handler {
	return Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r)
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(claims.Email))
	}))
}

func TestAuthAcceptsValidToken(t *testing.T) {
	token, err := IssueToken(testSecret, UserClaims{UserID: "op-1", Email: "op@example.com", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/bins", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "op@example.com", rec.Body.String())
}

func TestAuthRejects(t *testing.T) {
	expired, err := IssueToken(testSecret, UserClaims{UserID: "op-1"}, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := IssueToken("other-secret", UserClaims{UserID: "op-1"}, time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":   "",
		"no bearer": "Token abc",
		"garbage":   "Bearer not-a-jwt",
		"expired":   "Bearer " + expired,
		"wrong key": "Bearer " + wrongKey,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/bins", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protected().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestAuthWithoutSecret(t *testing.T) {
	h := Auth("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/bins", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	_, err := IssueToken("", UserClaims{UserID: "op-1"}, time.Hour)
	assert.Error(t, err)
}

func TestParseTokenRequiresSubject(t *testing.T) {
	token, err := IssueToken(testSecret, UserClaims{}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}
