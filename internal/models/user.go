package models

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"` // unique, case-sensitive
	Password string `json:"password"` // bcrypt hash
	Nickname string `json:"nickname"` // display name
}

// Redacted returns a copy safe to hand to templates and request context.
func (u User) Redacted() User {
	u.Password = ""
	return u
}
