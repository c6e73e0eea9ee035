package domain

import "time"

// Church is the organizational tenant: every budget, expense and non-global
// account belongs to exactly one church.
type Church struct {
	ChurchID    string `json:"churchID"` // Primary Key (UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// ChurchRole defines the possible roles a user can hold within a church.
// The three lowest approval roles correspond to the three workflow steps.
type ChurchRole string

const (
	RoleAdmin                ChurchRole = "ADMIN"
	RoleFinanceManager       ChurchRole = "FINANCE_MANAGER"
	RoleCommitteeChair       ChurchRole = "COMMITTEE_CHAIR"
	RoleDepartmentHead       ChurchRole = "DEPARTMENT_HEAD"
	RoleDepartmentAccountant ChurchRole = "DEPARTMENT_ACCOUNTANT"
	RoleMember               ChurchRole = "MEMBER"
)

// rolePrecedence orders roles for minimum-role authorization checks.
var rolePrecedence = map[ChurchRole]int{
	RoleMember:               0,
	RoleDepartmentAccountant: 1,
	RoleDepartmentHead:       2,
	RoleCommitteeChair:       3,
	RoleFinanceManager:       4,
	RoleAdmin:                5,
}

// AtLeast reports whether the role has the given role's privileges or higher.
func (r ChurchRole) AtLeast(min ChurchRole) bool {
	return rolePrecedence[r] >= rolePrecedence[min]
}

// UserChurch represents the membership of a User in a Church.
type UserChurch struct {
	UserID   string     `json:"userID"`   // FK -> users.user_id
	UserName string     `json:"userName"`
	ChurchID string     `json:"churchID"` // FK -> churches.church_id
	Role     ChurchRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}
