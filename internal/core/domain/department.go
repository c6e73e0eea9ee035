package domain

// Department is a church organizational unit that owns budgets. Read-only
// from this service's perspective: member administration lives elsewhere.
type Department struct {
	DepartmentID string  `json:"departmentID"` // Primary Key (UUID)
	ChurchID     string  `json:"churchID"`     // FK -> churches.church_id
	Name         string  `json:"name"`
	ParentID     *string `json:"parentID,omitempty"` // Nullable self reference
	IsActive     bool    `json:"isActive"`
	AuditFields
}
