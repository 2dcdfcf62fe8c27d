package model

// RoleUnverified is the sentinel role held by every account whose final
// role has not been chosen yet. It is replaced exactly once, never
// stacked with a final role.
const RoleUnverified = "unverified"

// Final business roles.
const (
	RoleBuyer    = "buyer"
	RoleArtisan  = "artisan"
	RoleMarketer = "marketer"
	RoleAdmin    = "admin"
)

// FinalRoles lists every recognized final role.
var FinalRoles = []string{RoleBuyer, RoleArtisan, RoleMarketer, RoleAdmin}

// AssignableRoles lists the roles an account may choose for itself.
// Admin is recognized but never self-assignable.
var AssignableRoles = []string{RoleBuyer, RoleArtisan, RoleMarketer}

// IsFinalRole reports whether name is a recognized final role.
func IsFinalRole(name string) bool {
	for _, r := range FinalRoles {
		if r == name {
			return true
		}
	}
	return false
}

// IsAssignableRole reports whether an account may request name for
// itself.
func IsAssignableRole(name string) bool {
	for _, r := range AssignableRoles {
		if r == name {
			return true
		}
	}
	return false
}

// Genders recognized by the profile completion step.
var Genders = []string{"male", "female", "other"}

// IsKnownGender reports whether g is a recognized gender value.
func IsKnownGender(g string) bool {
	for _, known := range Genders {
		if known == g {
			return true
		}
	}
	return false
}
