package domain

// Principal is the identity attached to a single request. It is built by
// the identity interceptor and never mutated afterwards; accessors return
// copies so callers cannot alter it.
type Principal struct {
	subject       string
	accountID     string
	roles         []Role
	authenticated bool
}

// NewPrincipal returns an authenticated Principal. subject is the username
// or email the token was issued for; accountID is the account it resolved to.
func NewPrincipal(subject, accountID string, roles []Role) Principal {
	cp := make([]Role, len(roles))
	copy(cp, roles)
	return Principal{
		subject:       subject,
		accountID:     accountID,
		roles:         cp,
		authenticated: true,
	}
}

// AnonymousPrincipal returns the Principal used for requests without a
// valid token.
func AnonymousPrincipal() Principal {
	return Principal{}
}

func (p Principal) Subject() string       { return p.subject }
func (p Principal) AccountID() string     { return p.accountID }
func (p Principal) IsAuthenticated() bool { return p.authenticated }

// Roles returns a copy of the principal's roles.
func (p Principal) Roles() []Role {
	cp := make([]Role, len(p.roles))
	copy(cp, p.roles)
	return cp
}

// HasRole reports whether the principal holds r exactly.
func (p Principal) HasRole(r Role) bool {
	for _, held := range p.roles {
		if held == r {
			return true
		}
	}
	return false
}

// HighestRole returns the principal's most privileged role.
func (p Principal) HighestRole() Role {
	return HighestRole(p.roles)
}

// Satisfies reports whether the principal holds any of required or a role
// above it in the hierarchy. An empty required set is satisfied by any
// authenticated principal.
func (p Principal) Satisfies(required []Role) bool {
	if !p.authenticated {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, held := range p.roles {
		for _, want := range required {
			if held.AtLeast(want) {
				return true
			}
		}
	}
	return false
}
