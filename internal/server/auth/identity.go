// Package auth hashes passwords and issues and resolves proofs of identity:
// signed bearer tokens or server-held sessions.
package auth

// Identity is what a valid proof resolves to.
type Identity struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}
