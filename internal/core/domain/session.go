package domain

import (
	"encoding/json"
	"fmt"
)

// Phase is the lifecycle position of a SessionState.
type Phase string

const (
	// PhaseResolving means the current identity has not been asked for yet.
	PhaseResolving     Phase = "resolving"
	PhaseAnonymous     Phase = "anonymous"
	PhaseAuthenticated Phase = "authenticated"
)

// SessionState is the portal's belief about who, if anyone, is signed in.
// Values are immutable; every transition builds a new one.
type SessionState struct {
	phase    Phase
	identity Identity
}

// Resolving is the state of a browser session whose identity is still unknown.
func Resolving() SessionState { return SessionState{phase: PhaseResolving} }

// Anonymous is the state of a visitor with no identity.
func Anonymous() SessionState { return SessionState{phase: PhaseAnonymous} }

// Authenticated holds exactly one identity.
func Authenticated(id Identity) SessionState {
	return SessionState{phase: PhaseAuthenticated, identity: id}
}

func (s SessionState) Phase() Phase {
	if s.phase == "" {
		return PhaseResolving
	}
	return s.phase
}

// Identity returns the signed-in identity; ok is false unless authenticated.
func (s SessionState) Identity() (Identity, bool) {
	if s.phase != PhaseAuthenticated {
		return Identity{}, false
	}
	return s.identity, true
}

func (s SessionState) IsAuthenticated() bool { return s.phase == PhaseAuthenticated }

func (s SessionState) IsAdmin() bool {
	return s.phase == PhaseAuthenticated && s.identity.IsAdmin()
}

type sessionStateJSON struct {
	Phase    Phase     `json:"phase"`
	Identity *Identity `json:"identity,omitempty"`
}

func (s SessionState) MarshalJSON() ([]byte, error) {
	out := sessionStateJSON{Phase: s.Phase()}
	if id, ok := s.Identity(); ok {
		out.Identity = &id
	}
	return json.Marshal(out)
}

func (s *SessionState) UnmarshalJSON(data []byte) error {
	var in sessionStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Phase {
	case PhaseAuthenticated:
		if in.Identity == nil {
			return fmt.Errorf("session state: authenticated without identity")
		}
		*s = Authenticated(*in.Identity)
	case PhaseAnonymous:
		*s = Anonymous()
	case PhaseResolving, "":
		*s = Resolving()
	default:
		return fmt.Errorf("session state: unknown phase %q", in.Phase)
	}
	return nil
}
