package document

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level a collaborator holds on a document.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleEditor
}

// Document is the metadata record for a collaborative document. The body
// itself lives with the hosted realtime provider; this service owns the
// title and the access list.
type Document struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	CreatorID    int64           `json:"creatorId"`
	CreatorEmail string          `json:"creatorEmail"`
	Accesses     map[string]Role `json:"accesses"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// RoleOf returns the role the given email holds, if any.
func (d Document) RoleOf(email string) (Role, bool) {
	role, ok := d.Accesses[email]
	return role, ok
}

// CanEdit reports whether the email may mutate the document.
func (d Document) CanEdit(email string) bool {
	if email == d.CreatorEmail {
		return true
	}
	return d.Accesses[email] == RoleEditor
}

// Identity is the payload handed to the hosted collaboration provider when
// identifying a user joining a document room.
type Identity struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
}
