package domain

import "time"

// AuditAction names a protected account mutation.
type AuditAction string

const (
	AuditAccountUpdated AuditAction = "account_updated"
	AuditPasswordReset  AuditAction = "password_reset"
	AuditRolesChanged   AuditAction = "roles_changed"
	AuditAccountDeleted AuditAction = "account_deleted"
)

// AuditEvent records who performed a protected mutation on which account.
type AuditEvent struct {
	ID       string
	ActorID  string
	TargetID string
	Action   AuditAction
	Detail   string
	At       time.Time
}
