package integration

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthHeaders(t *testing.T) {
	t.Run("API key scheme", func(t *testing.T) {
		headers := AuthHeaders(AuthTypeAPIKey, map[string]string{"api_key": "secret-123"})
		assert.Equal(t, map[string]string{"X-API-Key": "secret-123"}, headers)
	})

	t.Run("API key absent yields empty value", func(t *testing.T) {
		headers := AuthHeaders(AuthTypeAPIKey, map[string]string{})
		assert.Equal(t, map[string]string{"X-API-Key": ""}, headers)
	})

	t.Run("Bearer scheme", func(t *testing.T) {
		headers := AuthHeaders(AuthTypeBearer, map[string]string{"bearer_token": "tok"})
		assert.Equal(t, map[string]string{"Authorization": "Bearer tok"}, headers)
	})

	t.Run("Basic scheme encodes username and password", func(t *testing.T) {
		headers := AuthHeaders(AuthTypeBasic, map[string]string{
			"username": "erp-user",
			"password": "pa55",
		})

		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("erp-user:pa55"))
		assert.Equal(t, map[string]string{"Authorization": expected}, headers)
	})

	t.Run("OAuth2 scheme sends access token as bearer", func(t *testing.T) {
		headers := AuthHeaders(AuthTypeOAuth2, map[string]string{"access_token": "at-1"})
		assert.Equal(t, map[string]string{"Authorization": "Bearer at-1"}, headers)
	})

	t.Run("Unknown scheme produces no auth header", func(t *testing.T) {
		headers := AuthHeaders(AuthType("saml"), map[string]string{"api_key": "ignored"})
		assert.Empty(t, headers)
	})
}

func TestAuthTypeIsValid(t *testing.T) {
	valid := []AuthType{AuthTypeAPIKey, AuthTypeBearer, AuthTypeBasic, AuthTypeOAuth2}
	for _, a := range valid {
		assert.True(t, a.IsValid(), a.String())
	}
	assert.False(t, AuthType("ntlm").IsValid())
	assert.False(t, AuthType("").IsValid())
}
