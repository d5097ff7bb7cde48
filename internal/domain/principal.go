package domain

// Principal is a pre-provisioned identity. Username is opaque.
type Principal struct {
	Username     string
	PasswordHash string
	IsAdmin      bool
}
