package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIdentity_UnmarshalNumericID(t *testing.T) {
	var id Identity
	if err := json.Unmarshal([]byte(`{"id":1,"username":"ana","email":"a@x.com","role":"customer"}`), &id); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if id.ID != "1" || id.Username != "ana" || id.Role != RoleCustomer {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestIdentity_UnmarshalObjectID(t *testing.T) {
	var id Identity
	if err := json.Unmarshal([]byte(`{"_id":"65f0c1","username":"bo","email":"b@x.com","role":"seller"}`), &id); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if id.ID != "65f0c1" {
		t.Fatalf("expected _id to populate ID, got %q", id.ID)
	}
}

func TestIdentity_Validate(t *testing.T) {
	if err := (Identity{ID: "1", Role: RoleAdmin}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := (Identity{ID: "1", Role: "superuser"}).Validate()
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if err := (Identity{Role: RoleAdmin}).Validate(); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected missing id to be malformed, got %v", err)
	}
}

func TestAvatarInitial(t *testing.T) {
	cases := map[string]string{
		"ana":   "A",
		"":      "?",
		"  ":    "?",
		"émile": "É",
	}
	for in, want := range cases {
		if got := AvatarInitial(in); got != want {
			t.Errorf("AvatarInitial(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		if err != nil || got != r {
			t.Fatalf("ParseRole(%q) = %q, %v", r, got, err)
		}
	}
	if _, err := ParseRole("owner"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSessionState_JSONRoundTripKeepsIdentity(t *testing.T) {
	in := Authenticated(Identity{ID: "9", Username: "root", Role: RoleAdmin})
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out SessionState
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	id, ok := out.Identity()
	if !ok || id.ID != "9" || !out.IsAdmin() {
		t.Fatalf("identity lost: %+v", out)
	}
}

func TestSessionState_AnonymousHasNoIdentity(t *testing.T) {
	if _, ok := Anonymous().Identity(); ok {
		t.Fatal("anonymous state must not expose an identity")
	}
	if Anonymous().IsAdmin() {
		t.Fatal("anonymous state is never admin")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(&RemoteError{Status: 403, Message: "Forbidden"}, "fallback"); got != "Forbidden" {
		t.Fatalf("got %q", got)
	}
	if got := UserMessage(&RemoteError{Status: 500}, "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
	if got := UserMessage(ErrAccountUnavailable, "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}
