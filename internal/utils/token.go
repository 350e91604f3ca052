package utils

import "strings"

// tokenPrefix is the stand-in session token scheme inherited from the
// frontend contract: the token is derived from the login and carries no
// cryptographic weight. Replacing it with real sessions would break the
// existing clients, so it stays until the API is versioned.
const tokenPrefix = "fake-jwt-token-for-"

// TokenFor derives the session token for a login. The derivation is
// deterministic: the same login always yields the same token.
func TokenFor(login string) string {
	return tokenPrefix + login
}

// LoginFromBearer extracts the login from an Authorization header value.
// It returns false unless the header is a Bearer token in the expected
// format with a non-empty login.
func LoginFromBearer(header string) (string, bool) {
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return "", false
	}
	token := strings.TrimPrefix(header, scheme)
	if !strings.HasPrefix(token, tokenPrefix) {
		return "", false
	}
	login := strings.TrimPrefix(token, tokenPrefix)
	if login == "" {
		return "", false
	}
	return login, true
}
