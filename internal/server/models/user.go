package models

// User is a registered account. PasswordHash holds the bcrypt digest,
// never the plaintext.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}
