package domain

// Role is a project membership role. Authorization decisions go through the
// capability methods below rather than ad hoc string comparisons.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleUser:
		return true
	default:
		return false
	}
}

func (r Role) CanManageBoards() bool { return r == RoleOwner || r == RoleEditor }

func (r Role) CanManageTasks() bool { return r == RoleOwner || r == RoleEditor }

func (r Role) CanChangeRoles() bool { return r == RoleOwner || r == RoleEditor }

func (r Role) CanInvite() bool { return r == RoleOwner }

func (r Role) CanDeleteProject() bool { return r == RoleOwner }

func (r Role) CanEditProject() bool { return r == RoleOwner || r == RoleEditor }
