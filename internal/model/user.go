package model

// User is the identity record supplied by the external authentication
// provider. The core consumes it for ownership context only and never
// authenticates anyone itself.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}
