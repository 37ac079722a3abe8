package models

import "time"

// User is a registered dashboard account.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// UserProfile is the public view of a User.
type UserProfile struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	CreatedAt *time.Time `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

// Profile converts a User to its public view.
func (u User) Profile() UserProfile {
	created := u.CreatedAt
	p := UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		LastLogin: u.LastLogin,
	}
	if !created.IsZero() {
		p.CreatedAt = &created
	}
	return p
}
