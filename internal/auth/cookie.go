package auth

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// Cookies writes and clears the session cookie. Production selects
// Secure + SameSite=None so browsers send the cookie cross-site; otherwise
// the cookie is SameSite=Strict and not Secure, which works over plain HTTP.
type Cookies struct {
	Production bool
	MaxAge     time.Duration
}

func (c Cookies) base() *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
	}
	if c.Production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteStrictMode
	}
	return cookie
}

// Set attaches token to the response.
func (c Cookies) Set(w http.ResponseWriter, token string) {
	cookie := c.base()
	cookie.Value = token
	if c.MaxAge > 0 {
		cookie.MaxAge = int(c.MaxAge / time.Second)
	}
	http.SetCookie(w, cookie)
}

// Clear tells the client to drop the session cookie. Attributes match Set.
func (c Cookies) Clear(w http.ResponseWriter) {
	cookie := c.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

// FromRequest returns the session token carried by r, if any.
func FromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
