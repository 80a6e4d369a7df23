package account

import "time"

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fields is a partial update; nil members are left untouched.
type Fields struct {
	Name         *string
	PasswordHash *string
}

func (f Fields) Empty() bool {
	return f.Name == nil && f.PasswordHash == nil
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// UpdateRequest distinguishes an absent field (nil) from an empty one.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Profile is the public view of an Account.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

func (a *Account) Profile() Profile {
	return Profile{ID: a.ID, Name: a.Name, Email: a.Email}
}
