package application

import (
	"github.com/H0sin/mikroman/internal/domain"
)

// PlanLink is one user-profile row as reported by the router.
type PlanLink struct {
	Profile string
	State   string
	EndTime string
}

// UserStatus aggregates everything the CLI shows for one account: the raw
// record, its decoded attributes, and the plans it is linked to.
type UserStatus struct {
	User       domain.User
	Attributes domain.Attributes
	Plans      []PlanLink
}
