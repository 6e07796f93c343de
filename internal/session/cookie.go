// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the name of the session cookie sent to the browser.
const CookieName = "flyerly_session"

// Cookies issues and reads the session id cookie. The cookie value is the
// id followed by an HMAC-SHA256 of it, so only ids this server issued are
// accepted.
type Cookies struct {
	Secure bool
	TTL    time.Duration
	// Secret is the signing key. Empty uses a random key generated once
	// per process, which invalidates every cookie on restart.
	Secret []byte
}

var (
	processKey     []byte
	processKeyOnce sync.Once
)

// ID returns the session id carried by r if its signature verifies.
func (c Cookies) ID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	raw, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id.String() != raw {
		return "", false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, c.sign(raw)) {
		return "", false
	}
	return raw, true
}

// Ensure returns the request's session id, issuing a new one (and setting
// the cookie on w) when the request has none or its signature is wrong.
func (c Cookies) Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := c.ID(r); ok {
		return id
	}
	id := uuid.NewString()
	c.set(w, c.Value(id), int(c.ttl().Seconds()))
	return id
}

// Value is the signed cookie value for id.
func (c Cookies) Value(id string) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(c.sign(id))
}

// Clear expires the cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	c.set(w, "", -1)
}

func (c Cookies) sign(id string) []byte {
	mac := hmac.New(sha256.New, c.key())
	mac.Write([]byte(id))
	return mac.Sum(nil)
}

func (c Cookies) key() []byte {
	if len(c.Secret) > 0 {
		return c.Secret
	}
	processKeyOnce.Do(func() {
		processKey = []byte(rand.Text())
	})
	return processKey
}

func (c Cookies) set(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (c Cookies) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}
