package user

// Principal is the authenticated caller.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}
