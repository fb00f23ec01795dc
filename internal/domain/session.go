package domain

// Session is the browser-facing login state: the three slots the storefront
// persists (bearer token, username, role list) keyed by the sid cookie.
type Session struct {
	SID      string   `db:"sid"`
	Token    string   `db:"token"`
	Username string   `db:"username"`
	Roles    []string `db:"-"`
}

const RoleAdmin = "ROLE_ADMIN"

func (s *Session) HasRole(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func (s *Session) IsAdmin() bool { return s.HasRole(RoleAdmin) }
