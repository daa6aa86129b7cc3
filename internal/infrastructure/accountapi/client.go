// Package accountapi talks to the Account Service over HTTP on behalf of one
// visitor at a time. The visitor's upstream cookies travel in the request
// context as a credjar.Jar; whatever the Account Service sets is written back
// into that jar.
package accountapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
	"github.com/authapp/portal/internal/core/ports"
	"github.com/authapp/portal/internal/pkg/credjar"
	"github.com/authapp/portal/internal/pkg/metrics"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// Config holds the Account Service location. A zero Timeout means calls are
// bounded only by the caller's context.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.AccountService.
//
// Thread Safety: a Client holds no per-visitor state and is safe for
// concurrent use; per-visitor cookies live in the request context.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.AccountService = (*Client)(nil)

// New validates cfg and returns a ready client. No request is made.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("account api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("account api url %q: scheme must be http or https", cfg.BaseURL)
	}
	return &Client{
		base:       base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("component", "accountapi").Logger(),
	}, nil
}

type userEnvelope struct {
	User *domain.Identity `json:"user"`
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (err error) {
	defer c.observe("register", time.Now(), &err)
	return c.do(ctx, "register", http.MethodPost, "/auth/register", in, nil)
}

func (c *Client) Login(ctx context.Context, in ports.LoginInput) (_ *domain.Identity, err error) {
	defer c.observe("login", time.Now(), &err)
	return c.identity(ctx, "login", http.MethodPost, "/auth/login", in)
}

func (c *Client) Logout(ctx context.Context) (err error) {
	defer c.observe("logout", time.Now(), &err)
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", struct{}{}, nil)
}

func (c *Client) GetProfile(ctx context.Context) (_ *domain.Identity, err error) {
	defer c.observe("get_profile", time.Now(), &err)
	return c.identity(ctx, "get_profile", http.MethodGet, "/users/profile", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, in ports.ProfileUpdate) (_ *domain.Identity, err error) {
	defer c.observe("update_profile", time.Now(), &err)
	return c.identity(ctx, "update_profile", http.MethodPut, "/users/profile", in)
}

// ListUsers accepts both a bare array and a {"users": [...]} object.
func (c *Client) ListUsers(ctx context.Context) (_ domain.IdentityCollection, err error) {
	defer c.observe("list_users", time.Now(), &err)

	var raw json.RawMessage
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", nil, &raw); err != nil {
		return nil, err
	}
	return decodeUsers(raw)
}

func (c *Client) UpdateRole(ctx context.Context, id domain.ID, role domain.Role) (err error) {
	defer c.observe("update_role", time.Now(), &err)
	path := "/users/" + url.PathEscape(id.String()) + "/role"
	return c.do(ctx, "update_role", http.MethodPatch, path, map[string]domain.Role{"role": role}, nil)
}

func (c *Client) identity(ctx context.Context, op, method, path string, body any) (*domain.Identity, error) {
	var env userEnvelope
	if err := c.do(ctx, op, method, path, body, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("%s: %w: missing user", op, domain.ErrMalformedResponse)
	}
	if err := env.User.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return env.User, nil
}

func decodeUsers(raw json.RawMessage) (domain.IdentityCollection, error) {
	trimmed := bytes.TrimSpace(raw)
	var users domain.IdentityCollection

	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &users); err != nil {
			return nil, fmt.Errorf("list_users: %w: %w", domain.ErrMalformedResponse, err)
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		var wrapped struct {
			Users domain.IdentityCollection `json:"users"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("list_users: %w: %w", domain.ErrMalformedResponse, err)
		}
		users = wrapped.Users
	default:
		return nil, fmt.Errorf("list_users: %w: expected array or object", domain.ErrMalformedResponse)
	}

	for _, u := range users {
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("list_users: %w", err)
		}
	}
	if users == nil {
		users = domain.IdentityCollection{}
	}
	return users, nil
}

// observe records the outcome and duration of one call.
func (c *Client) observe(op string, start time.Time, errp *error) {
	metrics.AccountCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.AccountCallsTotal.WithLabelValues(op, outcome(*errp)).Inc()
}

func outcome(err error) string {
	var re *domain.RemoteError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &re):
		return "rejected"
	case errors.Is(err, domain.ErrAccountUnavailable):
		return "unavailable"
	default:
		return "malformed"
	}
}

// do performs one call. A non-2xx answer becomes *domain.RemoteError, a
// transport failure wraps domain.ErrAccountUnavailable and an undecodable
// success body wraps domain.ErrMalformedResponse. out may be nil.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	jar := credjar.FromContext(ctx)
	if jar != nil {
		for _, ck := range jar.Cookies(u) {
			req.AddCookie(ck)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("operation", op).Msg("account service unreachable")
		return fmt.Errorf("%s: %w: %w", op, domain.ErrAccountUnavailable, err)
	}
	defer resp.Body.Close()

	if jar != nil {
		jar.SetCookies(u, resp.Cookies())
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: %w: read body: %w", op, domain.ErrAccountUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := &domain.RemoteError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(payload, &eb) == nil {
			remote.Message = eb.Message
		}
		c.log.Debug().Str("operation", op).Int("status", resp.StatusCode).Str("message", remote.Message).Msg("account service rejected call")
		return fmt.Errorf("%s: %w", op, remote)
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrMalformedResponse, err)
		}
	}
	return nil
}
