package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gatekeeper/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const CookieName = "session_id"

// Manager owns the session lifecycle and the cookie transport. Handlers
// never see the token: they establish, read, or destroy the session on
// the current request and the manager does the rest. The cookie value is
// the token plus an HMAC-SHA256 tag, so a tampered or forged token reads
// as no session at all.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Establish creates a fresh session for the identity and sets the cookie.
// A previous session on the same client is simply superseded; if two
// logins race on one client the last write wins.
func (m *Manager) Establish(c *gin.Context, id user.Identity) error {
	token, err := newToken()

	if err != nil {
		return err
	}

	payload, err := json.Marshal(id)

	if err != nil {
		return err
	}

	err = m.store.Set(c.Request.Context(), token, payload, m.ttl)

	if err != nil {
		return err
	}

	m.setCookie(c, m.sign(token), int(m.ttl.Seconds()))

	return nil
}

// Current returns the identity on the request's session, or false when
// there is no cookie, the signature does not check out, or the session
// is absent or expired server-side.
func (m *Manager) Current(c *gin.Context) (user.Identity, bool) {
	raw, err := c.Cookie(CookieName)

	if err != nil || raw == "" {
		return user.Identity{}, false
	}

	token, ok := m.verify(raw)

	if !ok {
		return user.Identity{}, false
	}

	payload, found, err := m.store.Get(c.Request.Context(), token)

	if err != nil || !found {
		return user.Identity{}, false
	}

	var id user.Identity

	if err := json.Unmarshal(payload, &id); err != nil {
		return user.Identity{}, false
	}

	return id, true
}

// Destroy removes the session server-side and clears the cookie.
// Destroying an absent session is not an error.
func (m *Manager) Destroy(c *gin.Context) error {
	raw, err := c.Cookie(CookieName)

	if err == nil && raw != "" {
		if token, ok := m.verify(raw); ok {
			if err := m.store.Delete(c.Request.Context(), token); err != nil {
				m.setCookie(c, "", -1)
				return err
			}
		}
	}

	m.setCookie(c, "", -1)

	return nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		CookieName,
		value,
		maxAge,
		"/",
		"",
		m.secure,
		true, // HttpOnly
	)
}

func (m *Manager) sign(token string) string {
	return token + "." + m.tag(token)
}

func (m *Manager) verify(raw string) (string, bool) {
	token, tag, ok := strings.Cut(raw, ".")

	if !ok || token == "" {
		return "", false
	}

	if !hmac.Equal([]byte(tag), []byte(m.tag(token))) {
		return "", false
	}

	return token, true
}

func (m *Manager) tag(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
