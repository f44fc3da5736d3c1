package model

// Scope identifies who a request acts for.
type Scope struct {
	UserID   int64
	Username string
	ChatID   int64
}
