package prefs

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// CookieStorage keeps preferences in browser cookies, the same ones page
// scripts read and write. Values set during request are visible to Get
// immediately.
type CookieStorage struct {
	r      *http.Request
	w      http.ResponseWriter
	maxAge time.Duration
	set    map[string]string
}

func NewCookieStorage(w http.ResponseWriter, r *http.Request, maxAge time.Duration) *CookieStorage {
	return &CookieStorage{r: r, w: w, maxAge: maxAge, set: make(map[string]string)}
}

func (s *CookieStorage) Get(key string) (string, bool) {
	if v, ok := s.set[key]; ok {
		return v, true
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false
	}
	v, err := url.PathUnescape(c.Value)
	if err != nil {
		return c.Value, true
	}
	return v, true
}

func (s *CookieStorage) Set(key, value string) error {
	c := &http.Cookie{
		Name:     key,
		Value:    url.PathEscape(value),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	if s.maxAge > 0 {
		c.MaxAge = int(s.maxAge / time.Second)
		c.Expires = time.Now().Add(s.maxAge)
	}
	if err := c.Valid(); err != nil {
		return err
	}
	if _, again := s.set[key]; again {
		s.dropCookie(key)
	}
	http.SetCookie(s.w, c)
	s.set[key] = value
	return nil
}

// dropCookie removes cookie previously set in this response, so only the last
// value is sent.
func (s *CookieStorage) dropCookie(key string) {
	h := s.w.Header()
	h["Set-Cookie"] = slices.DeleteFunc(h["Set-Cookie"], func(v string) bool {
		return strings.HasPrefix(v, key+"=")
	})
}
