package models

import "time"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   int
	Username string
	IsStaff  bool
}

// CanAccess reports whether the principal may see or modify a record owned by ownerID.
func (p Principal) CanAccess(ownerID int) bool {
	return p.IsStaff || p.UserID == ownerID
}
