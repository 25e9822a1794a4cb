package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-api-filestore/internal/config"
	"github.com/go-api-filestore/internal/domain"
	"github.com/go-api-filestore/internal/pkg/creds"
	filestore "github.com/go-api-filestore/internal/storage/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	return NewRouter(cfg, &Deps{
		Store:  filestore.NewStore(t.TempDir()),
		Hasher: creds.NewHasher("test-secret"),
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Token", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Full lifecycle against the real file store: register, authenticate, read,
// update, delete, and observe the token outliving the user.
func TestUserLifecycle(t *testing.T) {
	h := newTestRouter(t)
	phone := "5551234567"

	// Register.
	rec := do(t, h, http.MethodPost, "/users", "", map[string]interface{}{
		"firstName": "Alice", "lastName": "Smith", "phone": phone,
		"password": "hunter2", "tosAgreement": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate registration conflicts.
	rec = do(t, h, http.MethodPost, "/users", "", map[string]interface{}{
		"firstName": "Alice", "lastName": "Smith", "phone": phone,
		"password": "hunter2", "tosAgreement": true,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Fetch without a token is forbidden, not an internal error.
	rec = do(t, h, http.MethodGet, "/users/"+phone, "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Issue a token with the wrong password.
	rec = do(t, h, http.MethodPost, "/tokens", "", map[string]interface{}{
		"phone": phone, "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Issue a token with the correct password.
	rec = do(t, h, http.MethodPost, "/tokens", "", map[string]interface{}{
		"phone": phone, "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var tok domain.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.Len(t, tok.ID, domain.TokenIDLength)

	// A forged token of the right shape is still forbidden.
	rec = do(t, h, http.MethodGet, "/users/"+phone, "aaaaaaaaaaaaaaaaaaaa", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Fetch with the real token: 200 and no password material in the body.
	rec = do(t, h, http.MethodGet, "/users/"+phone, tok.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Alice", body["firstName"])
	assert.NotContains(t, body, "passwordHash")

	// Update firstName only.
	rec = do(t, h, http.MethodPut, "/users/"+phone, tok.ID, map[string]interface{}{
		"firstName": "Alicia",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/"+phone, tok.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Alicia", body["firstName"])
	assert.Equal(t, "Smith", body["lastName"])

	// The re-issued password still works after the profile update.
	rec = do(t, h, http.MethodPost, "/tokens", "", map[string]interface{}{
		"phone": phone, "password": "hunter2",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Delete the user with the token.
	rec = do(t, h, http.MethodDelete, "/users/"+phone, tok.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The token outlives the user: it still verifies, so the fetch reaches
	// the store and reports the record as gone.
	rec = do(t, h, http.MethodGet, "/users/"+phone, tok.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTokenLifecycle(t *testing.T) {
	h := newTestRouter(t)
	phone := "5559876543"

	rec := do(t, h, http.MethodPost, "/users", "", map[string]interface{}{
		"firstName": "Bob", "lastName": "Jones", "phone": phone,
		"password": "secret99", "tosAgreement": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/tokens", "", map[string]interface{}{
		"phone": phone, "password": "secret99",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var tok domain.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))

	// Raw fetch returns the record.
	rec = do(t, h, http.MethodGet, "/tokens/"+tok.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Extend requires the intent flag.
	rec = do(t, h, http.MethodPut, "/tokens/"+tok.ID, "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/tokens/"+tok.ID, "", map[string]interface{}{"extend": true})
	require.Equal(t, http.StatusOK, rec.Code)
	var extended domain.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &extended))
	assert.False(t, extended.Expires.Before(tok.Expires))

	// Revoke, then the token no longer authorizes anything.
	rec = do(t, h, http.MethodDelete, "/tokens/"+tok.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/tokens/"+tok.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/users/"+phone, tok.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIssueToken_UnknownPhone(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/tokens", "", map[string]interface{}{
		"phone": "5550000000", "password": "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndNotFound(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")

	rec = do(t, h, http.MethodGet, "/hello", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "route not found")
}
