package domain

import "time"

// AuditAction names a portal action worth recording.
type AuditAction string

const (
	AuditLogin         AuditAction = "login"
	AuditRegister      AuditAction = "register"
	AuditLogout        AuditAction = "logout"
	AuditProfileUpdate AuditAction = "profile_update"
	AuditRoleChange    AuditAction = "role_change"
)

// AuditEvent records the outcome of one mutating call made on a visitor's behalf.
type AuditEvent struct {
	SessionID string
	Action    AuditAction
	ActorID   ID
	TargetID  ID
	Succeeded bool
	Detail    string
	At        time.Time
}
