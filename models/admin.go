package models

// Admin identifies the caller of a mutating operation. A nil *Admin means the route was
// served without authentication (no ADMIN_JWT_SECRET configured).
type Admin struct {
	Subject string
}

func (a *Admin) String() string {
	if a == nil || a.Subject == "" {
		return "anonymous"
	}
	return a.Subject
}
