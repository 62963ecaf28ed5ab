package identity

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Roles
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var (
	AllRoles = []Role{RoleTeacher, RoleStudent}

	Roles = []RoleInfo{
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Student", Value: RoleStudent},
	}

	ErrMalformed = errors.New("malformed identity")
)

type Role string

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type RoleInfo struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

// Identity is the authenticated actor. It is handed around by value; the role never changes once built.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Valid reports whether the identity can be an active session.
func (i Identity) Valid() bool {
	return i.ID != "" && i.Role.Valid()
}

func (i Identity) IsTeacher() bool {
	return i.Role == RoleTeacher
}

func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}

// HasAnyRole reports whether the identity holds one of roles. No roles means any role.
func (i Identity) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}

// Marshal encodes the identity into its persisted form: {id, name, email, role}.
func Marshal(i Identity) ([]byte, error) {
	return json.Marshal(i)
}

// Unmarshal decodes a persisted identity, rejecting anything that is not a well-formed one.
func Unmarshal(data []byte) (Identity, error) {
	var i Identity
	if err := json.Unmarshal(data, &i); err != nil {
		return Identity{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if !i.Valid() {
		return Identity{}, ErrMalformed
	}
	return i, nil
}

// NewIdentity contains information needed to register a new Identity.
type NewIdentity struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"required,role"`
}
