// Package credjar keeps the Account Service cookies collected for one visitor
// and carries them through a request context.
//
// A Jar talks to a single upstream, so cookies are keyed by name only and
// domain/path matching is not performed.
package credjar

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"
)

// Jar implements http.CookieJar for one visitor and one upstream host.
type Jar struct {
	mu      sync.Mutex
	cookies map[string]*http.Cookie
	dirty   bool
	now     func() time.Time
}

// New returns a Jar seeded with previously stored cookies.
func New(cookies []*http.Cookie) *Jar {
	j := &Jar{cookies: make(map[string]*http.Cookie, len(cookies)), now: time.Now}
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		cp := *c
		j.cookies[c.Name] = &cp
	}
	return j
}

// SetCookies stores cookies received from the upstream. A cookie with a
// negative MaxAge or an expiry in the past removes the stored one.
func (j *Jar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			if _, ok := j.cookies[c.Name]; ok {
				delete(j.cookies, c.Name)
				j.dirty = true
			}
			continue
		}
		cp := *c
		if cp.MaxAge > 0 {
			cp.Expires = now.Add(time.Duration(cp.MaxAge) * time.Second)
			cp.MaxAge = 0
		}
		j.cookies[c.Name] = &cp
		j.dirty = true
	}
}

// Cookies returns the unexpired cookies to send upstream.
func (j *Jar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, c := range j.sorted() {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Snapshot returns copies of every stored cookie for persistence.
func (j *Jar) Snapshot() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, c := range j.sorted() {
		cp := *c
		out = append(out, &cp)
	}
	return out
}

// Clear forgets every cookie.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.cookies) > 0 {
		j.dirty = true
	}
	j.cookies = make(map[string]*http.Cookie)
}

// Dirty reports whether the jar changed since it was created.
func (j *Jar) Dirty() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dirty
}

func (j *Jar) sorted() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

type ctxKey struct{}

// WithJar returns a context carrying j.
func WithJar(ctx context.Context, j *Jar) context.Context {
	return context.WithValue(ctx, ctxKey{}, j)
}

// FromContext returns the jar carried by ctx, or nil.
func FromContext(ctx context.Context) *Jar {
	j, _ := ctx.Value(ctxKey{}).(*Jar)
	return j
}
