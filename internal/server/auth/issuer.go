package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/odsregistry/internal/common"
)

// Issuer issues and resolves proofs of identity.
//
// Issue returns the bearer token to hand to the client, or "" when the
// proof travels in a cookie. Resolve returns common.ErrNoCredentials when
// the request carries no proof, and common.ErrInvalidToken or
// common.ErrTokenExpired when the proof does not check out.
type Issuer interface {
	Issue(c *gin.Context, id Identity) (string, error)
	Resolve(c *gin.Context) (Identity, error)
	Revoke(c *gin.Context) error
}

// JWTIssuer hands out stateless HS256 tokens read back from the
// Authorization header.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret []byte, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: secret, ttl: ttl}
}

func (i *JWTIssuer) Issue(c *gin.Context, id Identity) (string, error) {
	return GenerateToken(id, i.secret, i.ttl)
}

func (i *JWTIssuer) Resolve(c *gin.Context) (Identity, error) {
	token := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if token == "" {
		return Identity{}, common.ErrNoCredentials
	}
	return ParseToken(token, i.secret)
}

// Revoke is a no-op: a signed token stays valid until it expires.
func (i *JWTIssuer) Revoke(c *gin.Context) error {
	return nil
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len(common.BearerPrefix) && strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(header[len(common.BearerPrefix):])
	}
	return ""
}

const (
	sessionKeyUserID    = "uid"
	sessionKeyEmail     = "email"
	sessionKeyExpiresAt = "exp"
)

// SessionIssuer keeps the identity in a gin-contrib/sessions session.
// Middleware must run before any handler calling Issue, Resolve or Revoke.
type SessionIssuer struct {
	store  sessions.Store
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionIssuer(store sessions.Store, ttl time.Duration, secure bool) *SessionIssuer {
	i := &SessionIssuer{store: store, ttl: ttl, secure: secure, now: time.Now}
	store.Options(i.options(i.maxAge()))
	return i
}

func (i *SessionIssuer) maxAge() int {
	return int(i.ttl.Seconds())
}

func (i *SessionIssuer) options(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware loads the request's session under common.SessionCookieName.
func (i *SessionIssuer) Middleware() gin.HandlerFunc {
	return sessions.Sessions(common.SessionCookieName, i.store)
}

func (i *SessionIssuer) Issue(c *gin.Context, id Identity) (string, error) {
	s := sessions.Default(c)
	s.Clear()
	s.Options(i.options(i.maxAge()))
	s.Set(sessionKeyUserID, id.UserID)
	s.Set(sessionKeyEmail, id.Email)
	s.Set(sessionKeyExpiresAt, i.now().Add(i.ttl).Unix())

	if err := s.Save(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return "", nil
}

// Resolve trusts the session store; the user is not looked up again.
func (i *SessionIssuer) Resolve(c *gin.Context) (Identity, error) {
	if v, err := c.Cookie(common.SessionCookieName); err != nil || v == "" {
		return Identity{}, common.ErrNoCredentials
	}

	s := sessions.Default(c)
	uid, ok := s.Get(sessionKeyUserID).(int64)
	exp, _ := s.Get(sessionKeyExpiresAt).(int64)
	if !ok || exp == 0 {
		return Identity{}, common.ErrInvalidToken
	}
	if !i.now().Before(time.Unix(exp, 0)) {
		return Identity{}, common.ErrTokenExpired
	}

	email, _ := s.Get(sessionKeyEmail).(string)
	return Identity{UserID: uid, Email: email}, nil
}

// Revoke empties the session and expires the cookie.
func (i *SessionIssuer) Revoke(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(i.options(-1))
	if err := s.Save(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
