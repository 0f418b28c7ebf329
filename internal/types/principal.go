package types

import "github.com/princeprakhar/reviewhub-backend/internal/models"

// Principal is the resolved identity of an authenticated caller.
type Principal struct {
	ID   uint
	Role models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}
