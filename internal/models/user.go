package models

// User is an identity record. The password never lives here; it belongs to
// the authentication row keyed by the same user id.
type User struct {
	ID        int64
	Firstname string
	Lastname  string
	Email     string
	Username  string
}

// NewUserRequest carries the validated registration input, including the
// plaintext password that is hashed before persisting.
type NewUserRequest struct {
	Firstname string
	Lastname  string
	Email     string
	Username  string
	Password  string
}
