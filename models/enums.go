package models

type UserRole string

const (
	UserRoleAdmin  UserRole = "A"
	UserRoleEditor UserRole = "E"
	UserRoleViewer UserRole = "V"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleEditor, UserRoleViewer:
		return true
	}
	return false
}

type ImportType string

const (
	ImportTypeBudget    ImportType = "BUDGET_IMPORT"
	ImportTypeMigration ImportType = "MASTER_MIGRATION"
	ImportTypeBoa       ImportType = "BOA_ALLOCATION"
)

type ImportStatus string

const (
	ImportStatusCompleted           ImportStatus = "COMPLETED"
	ImportStatusCompletedWithErrors ImportStatus = "COMPLETED_WITH_ERRORS"
	ImportStatusFailed              ImportStatus = "FAILED"
)

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "PENDING"
	OutboxStatusSent    OutboxStatus = "SENT"
	OutboxStatusFailed  OutboxStatus = "FAILED"
)
