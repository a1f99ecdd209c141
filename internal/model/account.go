package model

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account is the primary account record. Registration and primary
// authentication live elsewhere; this subsystem only reads accounts.
type Account struct {
	Base
	Email  string        `json:"email" db:"email"`
	Name   string        `json:"name" db:"name"`
	Status AccountStatus `json:"status" db:"status"`
}
