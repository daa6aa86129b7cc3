package domain

import (
	"net/http"
	"slices"
	"time"
)

// BrowserSession is everything the portal keeps for one visitor between
// requests. The browser itself only holds a signed token naming ID.
type BrowserSession struct {
	ID        string       `json:"id"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`

	// Version counts successful saves. A store refuses to save a session
	// whose Version no longer matches the stored one.
	Version int64 `json:"version"`

	// Cookies are the Account Service cookies collected for this visitor and
	// replayed on every upstream call.
	Cookies []*http.Cookie `json:"cookies,omitempty"`

	// Notifications wait here until the next page render.
	Notifications []Notification `json:"notifications,omitempty"`

	// Users is the identity collection fetched on the last entry into the
	// admin view. Profile is the snapshot fetched on the last entry into the
	// profile editor.
	Users   IdentityCollection `json:"users,omitempty"`
	Profile *Identity          `json:"profile,omitempty"`
}

// NewBrowserSession starts a session whose identity is not yet resolved.
func NewBrowserSession(id string, now time.Time) *BrowserSession {
	return &BrowserSession{ID: id, State: Resolving(), CreatedAt: now.UTC()}
}

// Notify queues n for the next rendered page.
func (s *BrowserSession) Notify(n Notification) {
	s.Notifications = append(s.Notifications, n)
}

// TakeNotifications returns and clears the queued notifications.
func (s *BrowserSession) TakeNotifications() []Notification {
	out := s.Notifications
	s.Notifications = nil
	return out
}

// SignOut drops everything tied to the previous identity.
func (s *BrowserSession) SignOut() {
	s.State = Anonymous()
	s.Cookies = nil
	s.Users = nil
	s.Profile = nil
}

// Clone returns a deep copy of s.
func (s *BrowserSession) Clone() *BrowserSession {
	out := *s
	if s.Cookies != nil {
		out.Cookies = make([]*http.Cookie, len(s.Cookies))
		for i, c := range s.Cookies {
			cc := *c
			out.Cookies[i] = &cc
		}
	}
	out.Notifications = slices.Clone(s.Notifications)
	out.Users = slices.Clone(s.Users)
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return &out
}

// ChangedSince reports whether s differs from base in anything a request
// may change.
func (s *BrowserSession) ChangedSince(base *BrowserSession) bool {
	return s.State != base.State ||
		!sameCookies(s.Cookies, base.Cookies) ||
		!slices.Equal(s.Notifications, base.Notifications) ||
		!slices.Equal(s.Users, base.Users) ||
		!sameProfile(s.Profile, base.Profile)
}

// Rebase replays onto latest what was done to s since it was loaded as base,
// and returns latest. Fields s left alone keep latest's value.
//
// State, cookies and profile are replaced whole. Users keeps latest's rows
// and takes only the rows s edited, unless s fetched a different list.
// Notifications s rendered are dropped from latest and the ones s queued are
// appended.
func (s *BrowserSession) Rebase(base, latest *BrowserSession) *BrowserSession {
	if s.State != base.State {
		latest.State = s.State
	}
	if !sameCookies(s.Cookies, base.Cookies) {
		latest.Cookies = s.Cookies
	}
	if !sameProfile(s.Profile, base.Profile) {
		latest.Profile = s.Profile
	}
	latest.Users = rebaseUsers(base.Users, s.Users, latest.Users)
	latest.Notifications = rebaseNotifications(base.Notifications, s.Notifications, latest.Notifications)
	return latest
}

func rebaseUsers(base, mine, latest IdentityCollection) IdentityCollection {
	if slices.Equal(mine, base) {
		return latest
	}
	sameRows := len(mine) == len(base)
	for i := 0; sameRows && i < len(mine); i++ {
		sameRows = mine[i].ID == base[i].ID
	}
	if !sameRows {
		return mine
	}
	out := slices.Clone(latest)
	for i, row := range mine {
		if row == base[i] {
			continue
		}
		for j := range out {
			if out[j].ID == row.ID {
				out[j] = row
			}
		}
	}
	return out
}

func rebaseNotifications(base, mine, latest []Notification) []Notification {
	added := mine
	rendered := false
	if len(mine) >= len(base) && slices.Equal(mine[:len(base)], base) {
		added = mine[len(base):]
	} else {
		rendered = true
	}
	rest := latest
	if rendered && len(rest) >= len(base) && slices.Equal(rest[:len(base)], base) {
		rest = rest[len(base):]
	}
	out := append(slices.Clone(rest), added...)
	if len(out) == 0 {
		return nil
	}
	return out
}

func sameCookies(a, b []*http.Cookie) bool {
	return slices.EqualFunc(a, b, func(x, y *http.Cookie) bool {
		return x.String() == y.String() && x.Expires.Equal(y.Expires)
	})
}

func sameProfile(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
