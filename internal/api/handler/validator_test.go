package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/authapp/portal/internal/core/domain"
)

func TestValidator_ListsEveryMissingField(t *testing.T) {
	err := NewValidator().Validate(&profileForm{Phone: "555"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := err.Error(); got != "username is required; email is required" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestValidator_RoleOutsideSet(t *testing.T) {
	err := NewValidator().Validate(&roleForm{Role: "root"})
	if err == nil || !strings.Contains(err.Error(), "role must be one of admin, seller, customer") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestValidator_EmailIsNotFormatChecked(t *testing.T) {
	if err := NewValidator().Validate(&loginForm{Email: "ana", Password: "pw"}); err != nil {
		t.Fatalf("only presence is checked: %v", err)
	}
}

func TestValidator_OptionalRegisterRole(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&registerForm{Username: "u", Email: "e", Password: "p"}); err != nil {
		t.Fatalf("omitted role must pass: %v", err)
	}
	if err := v.Validate(&registerForm{Username: "u", Email: "e", Password: "p", Role: "admin"}); err == nil {
		t.Fatalf("admin must not be self-assigned at registration")
	}
}
