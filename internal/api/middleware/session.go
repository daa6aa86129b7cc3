package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/pkg/credjar"
)

const sessionKey = "browser_session"

// Resolver settles a resolving session into anonymous or authenticated.
type Resolver interface {
	Resolve(ctx context.Context, sessionID string) domain.SessionState
}

// CookieOptions controls the browser-session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// maxSaveAttempts bounds how often a save is rebased onto a concurrently
// saved session before giving up.
const maxSaveAttempts = 5

// Sessions loads the visitor's browser session (creating one when the cookie
// is missing, invalid or names an expired session), exposes the visitor's
// Account Service cookies to downstream calls through the request context,
// resolves a fresh session, and saves the session after the handler ran.
//
// Resolution happens here, before any Guard runs, so guards normally see a
// settled session; the loading page only shows for a session whose
// resolution did not settle it.
//
// The save uses a context detached from the request, so a visitor who
// disconnects mid-request still has the outcome recorded. Requests of one
// visitor may overlap: the save only carries what this request changed and
// is replayed onto any newer copy saved in the meantime.
func Sessions(store ports.SessionStore, resolver Resolver, tokens *SessionTokens, opts CookieOptions, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			sess, fresh, err := loadSession(ctx, c, store, tokens, opts, log)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "sessions are unavailable, please try again later").SetInternal(err)
			}
			if fresh {
				if err := setSessionCookie(c, tokens, sess.ID, opts); err != nil {
					return err
				}
			}
			base := sess.Clone()

			jar := credjar.New(sess.Cookies)
			ctx = credjar.WithJar(ctx, jar)
			c.SetRequest(req.WithContext(ctx))

			if sess.State.Phase() == domain.PhaseResolving {
				sess.State = resolver.Resolve(ctx, sess.ID)
			}
			SetSession(c, sess)

			err = next(c)

			if jar.Dirty() {
				sess.Cookies = jar.Snapshot()
			}
			if saveErr := saveSession(context.WithoutCancel(ctx), store, base, sess); saveErr != nil {
				log.Error().Err(saveErr).Str("session_id", sess.ID).Msg("failed to save browser session")
			}
			return err
		}
	}
}

// saveSession stores sess. When another request saved the session after
// base was loaded, the changes made since base are replayed onto that newer
// copy and the save is retried.
func saveSession(ctx context.Context, store ports.SessionStore, base, sess *domain.BrowserSession) error {
	for attempt := 1; ; attempt++ {
		err := store.Save(ctx, sess)
		if !errors.Is(err, domain.ErrSessionConflict) || attempt == maxSaveAttempts {
			return err
		}
		if !sess.ChangedSince(base) {
			// The newer copy already holds everything this request knows.
			return nil
		}

		latest, err := store.Load(ctx, sess.ID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			sess.Version = 0
			continue
		case err != nil:
			return err
		}
		sess, base = sess.Rebase(base, latest.Clone()), latest
	}
}

// SetSession attaches sess to the request.
func SetSession(c echo.Context, sess *domain.BrowserSession) {
	c.Set(sessionKey, sess)
}

// Session returns the browser session attached by Sessions, or nil.
func Session(c echo.Context) *domain.BrowserSession {
	sess, _ := c.Get(sessionKey).(*domain.BrowserSession)
	return sess
}

func loadSession(
	ctx context.Context,
	c echo.Context,
	store ports.SessionStore,
	tokens *SessionTokens,
	opts CookieOptions,
	log zerolog.Logger,
) (*domain.BrowserSession, bool, error) {
	if ck, err := c.Cookie(opts.Name); err == nil {
		id, issued, err := tokens.Parse(ck.Value)
		if err == nil {
			sess, err := store.Load(ctx, id)
			if err == nil {
				// Re-issue half-way through the token's life so active
				// visitors keep their session.
				return sess, !issued.IsZero() && time.Since(issued) > opts.TTL/2, nil
			}
			if !errors.Is(err, domain.ErrSessionNotFound) {
				// Starting over would sign the visitor out.
				return nil, false, err
			}
		} else {
			log.Debug().Err(err).Msg("discarding invalid session cookie")
		}
	}
	return domain.NewBrowserSession(uuid.NewString(), time.Now()), true, nil
}

func setSessionCookie(c echo.Context, tokens *SessionTokens, id string, opts CookieOptions) error {
	signed, err := tokens.Issue(id)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     opts.Name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
