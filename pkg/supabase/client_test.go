package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", "service-key").WithHTTPClient(srv.Client())
}

func TestSignInWithPassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])

		_, _ = io.WriteString(w, `{"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":3600,
			"user":{"id":"u1","email":"ada@example.com","app_metadata":{"role":"admin"}}}`)
	})

	s, err := client.SignInWithPassword(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, "rt", s.RefreshToken)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, "admin", s.User.MetadataRole())
}

func TestErrorMessageFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"msg", `{"msg":"Email not confirmed"}`, "Email not confirmed"},
		{"error_description", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"message", `{"message":"Bucket not found"}`, "Bucket not found"},
		{"empty", `not json`, "Bad Request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := client.SignInWithPassword(context.Background(), "a@b.co", "x")
			var se *Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusBadRequest, se.Status)
			assert.Equal(t, tt.want, se.Message)
		})
	}
}

func TestSignUpWithoutSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "https://site.example.com/auth/callback", r.URL.Query().Get("redirect_to"))
		_, _ = io.WriteString(w, `{"id":"u2","email":"new@example.com","user_metadata":{"full_name":"New User"}}`)
	})

	user, session, err := client.SignUp(context.Background(), "new@example.com", "password123",
		map[string]any{"full_name": "New User"}, "https://site.example.com/auth/callback")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "New User", user.MetadataString("full_name"))
}

func TestVerifyToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = io.WriteString(w, `{"id":"u1","email":"ada@example.com"}`)
		case "Bearer broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"msg":"invalid JWT"}`)
		}
	})

	user, err := client.VerifyToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	user, err = client.VerifyToken(context.Background(), "expired")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = client.VerifyToken(context.Background(), "broken")
	assert.Error(t, err)
}

func TestSetUserRoleUsesServiceKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/u1", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{}`)
	})
	require.NoError(t, client.SetUserRole(context.Background(), "u1", "admin"))
}

func TestStorageUploadAndRemove(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
			data, _ := io.ReadAll(r.Body)
			assert.Equal(t, []byte("jpeg-bytes"), data)
		}
		_, _ = io.WriteString(w, `{"Key":"portfolio/avatars/u1/x.jpg"}`)
	})
	storage := NewStorage(client, "portfolio")

	require.NoError(t, storage.Upload(context.Background(), "avatars/u1/x.jpg", []byte("jpeg-bytes"), "image/jpeg"))
	require.NoError(t, storage.Remove(context.Background(), "avatars/u1/x.jpg"))

	assert.Equal(t, []string{
		"POST /storage/v1/object/portfolio/avatars/u1/x.jpg",
		"DELETE /storage/v1/object/portfolio/avatars/u1/x.jpg",
	}, calls)
	assert.Equal(t, client.baseURL+"/storage/v1/object/public/portfolio/avatars/u1/x.jpg", storage.PublicURL("avatars/u1/x.jpg"))
}

func TestNotConfigured(t *testing.T) {
	client := NewClient("", "", "")
	assert.False(t, client.Configured())
	_, err := client.SignInWithPassword(context.Background(), "a@b.co", "x")
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
}
