package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// SessionCookieName names the session cookie.
	SessionCookieName = "ods_session"

	// RequestIDHeaderName is echoed on every HTTP response.
	RequestIDHeaderName = "X-Request-ID"
)
