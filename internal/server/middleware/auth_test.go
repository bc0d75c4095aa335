package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidator accepts a single token string.
type fakeValidator struct {
	accept  string
	subject string
}

func (v *fakeValidator) ValidateToken(tokenString string) (string, error) {
	if tokenString == v.accept {
		return v.subject, nil
	}
	return "", fmt.Errorf("invalid token")
}

func guarded(v TokenValidator) (http.Handler, *bool, *string) {
	called := false
	var subject string
	handler := RequireAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		subject, _ = Subject(r)
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &called, &subject
}

func TestRequireAuthMissingHeader(t *testing.T) {
	handler, called, _ := guarded(&fakeValidator{accept: "good"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireAuthBadScheme(t *testing.T) {
	handler, called, _ := guarded(&fakeValidator{accept: "good"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic Z29vZA==")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	handler, called, _ := guarded(&fakeValidator{accept: "good"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer bad")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireAuthValidToken(t *testing.T) {
	handler, called, subject := guarded(&fakeValidator{accept: "good", subject: "admin"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	assert.Equal(t, "admin", *subject)
}

func TestRequireAuthCaseInsensitiveScheme(t *testing.T) {
	handler, called, _ := guarded(&fakeValidator{accept: "good", subject: "admin"})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer good")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestSubjectOutsideMiddleware(t *testing.T) {
	_, err := Subject(httptest.NewRequest("GET", "/", nil))
	assert.Error(t, err)
}
