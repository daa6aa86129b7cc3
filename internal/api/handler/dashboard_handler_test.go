package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/authapp/portal/internal/core/domain"
)

func TestDashboard(t *testing.T) {
	cases := map[domain.Role]string{
		domain.RoleAdmin:    "You can access user management.",
		domain.RoleSeller:   "You can manage your products and orders.",
		domain.RoleCustomer: "Browse and shop freely!",
	}
	for role, want := range cases {
		t.Run(string(role), func(t *testing.T) {
			id := domain.Identity{ID: "9", Username: "zoe", Email: "zoe@x.io", Role: role}
			rec := call(t, Dashboard, newSession(domain.Authenticated(id)), http.MethodGet, "/dashboard", nil)

			body := rec.Body.String()
			if !strings.Contains(body, "Welcome, zoe") || !strings.Contains(body, want) {
				t.Fatalf("unexpected dashboard for %s", role)
			}
		})
	}
}

func TestDashboard_Anonymous(t *testing.T) {
	rec := call(t, Dashboard, newSession(domain.Anonymous()), http.MethodGet, "/dashboard", nil)
	if rec.Code == http.StatusOK {
		t.Fatalf("anonymous visitor must not see the dashboard")
	}
}
