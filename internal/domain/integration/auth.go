package integration

import "encoding/base64"

// AuthType is the authentication scheme used for outbound ERP calls.
type AuthType string

const (
	// AuthTypeAPIKey sends the configured key in an X-API-Key header
	AuthTypeAPIKey AuthType = "api_key"
	// AuthTypeBearer sends a static bearer token
	AuthTypeBearer AuthType = "bearer"
	// AuthTypeBasic sends HTTP basic credentials
	AuthTypeBasic AuthType = "basic"
	// AuthTypeOAuth2 sends a pre-issued OAuth2 access token as a bearer.
	// Token refresh is out of scope; a stale token surfaces as an ordinary
	// 401 from the ERP.
	AuthTypeOAuth2 AuthType = "oauth2"
)

// IsValid returns true if the auth type is valid
func (a AuthType) IsValid() bool {
	switch a {
	case AuthTypeAPIKey, AuthTypeBearer, AuthTypeBasic, AuthTypeOAuth2:
		return true
	default:
		return false
	}
}

// String returns the string representation of AuthType
func (a AuthType) String() string {
	return string(a)
}

// AuthHeaders builds the request headers for an auth scheme from the
// integration's auth config. Pure function, no I/O. An unknown scheme
// yields no headers; the caller then relies on the integration's static
// request headers alone.
func AuthHeaders(authType AuthType, cfg map[string]string) map[string]string {
	headers := make(map[string]string)
	switch authType {
	case AuthTypeAPIKey:
		headers["X-API-Key"] = cfg["api_key"]
	case AuthTypeBearer:
		headers["Authorization"] = "Bearer " + cfg["bearer_token"]
	case AuthTypeBasic:
		credentials := cfg["username"] + ":" + cfg["password"]
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
	case AuthTypeOAuth2:
		headers["Authorization"] = "Bearer " + cfg["access_token"]
	}
	return headers
}
