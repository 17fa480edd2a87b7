package domain

import "time"

// Account models a registered user. Accounts are immutable once created.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicAccount is the client-facing projection of an Account. It never
// carries the password hash.
type PublicAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public strips everything a client must not see.
func (a *Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Username: a.Username, Email: a.Email}
}
