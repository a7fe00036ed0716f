package entity

// RoleAdmin is the only role allowed into reports, exports and margin ranges.
const RoleAdmin = "admin"

// Session is the cashier identity decoded from the bearer token. It is passed
// explicitly to everything that calls the backend.
type Session struct {
	Token    string `json:"-"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// DisplayName prefers the full name for receipts.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Username
}

// Bearer is the Authorization header value.
func (s Session) Bearer() string {
	if s.Token == "" {
		return ""
	}
	return "Bearer " + s.Token
}
