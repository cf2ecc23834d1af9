package app

import "phishguard/internal/domain"

// Permission names a capability granted by a subscription plan.
type Permission string

const (
	PermScanBasic    Permission = "scan_basic"
	PermScanAdvanced Permission = "scan_advanced"
	PermAPIAccess    Permission = "api_access"
	PermAdmin        Permission = "admin"
)

// planPermissions is the static plan → capability table. Each tier is a
// superset of the one below it.
var planPermissions = map[domain.Plan][]Permission{
	domain.PlanFree:       {PermScanBasic},
	domain.PlanPro:        {PermScanBasic, PermScanAdvanced, PermAPIAccess},
	domain.PlanEnterprise: {PermScanBasic, PermScanAdvanced, PermAPIAccess, PermAdmin},
}

// PermissionsForPlan returns the capability set for a plan. Unknown plans
// have no permissions.
func PermissionsForPlan(plan domain.Plan) []Permission {
	return planPermissions[plan]
}

// HasPermission reports whether the user's plan grants the permission.
// A nil user holds no permissions.
func HasPermission(user *domain.User, perm Permission) bool {
	if user == nil {
		return false
	}
	for _, p := range planPermissions[user.Plan] {
		if p == perm {
			return true
		}
	}
	return false
}
