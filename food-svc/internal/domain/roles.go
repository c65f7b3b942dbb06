package domain

// ParseRole maps signup input to a role. Blank input selects Customer.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case "":
		return RoleCustomer, nil
	case RoleCustomer, RoleOwner:
		return Role(value), nil
	default:
		return "", NewValidationError("role", "must be Customer or Owner")
	}
}

// SignupLanding is where a freshly registered user is sent.
func SignupLanding(role Role) string {
	if role == RoleOwner {
		return "/add-restaurant"
	}
	return "/restaurants"
}

// LoginLanding is where a returning user is sent after signing in.
func LoginLanding(role Role) (string, error) {
	switch role {
	case RoleCustomer:
		return "/dashboard", nil
	case RoleOwner:
		return "/admin", nil
	default:
		return "", ErrUnknownRole
	}
}
