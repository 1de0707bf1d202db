package domain

import "time"

type ID string

// User is the sole authoritative identity record. PasswordHash is never
// exposed outside the auth core; Public strips it.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Country      string
	Address      string
	CreatedAt    time.Time
}

// PublicUser is the external view of a User.
type PublicUser struct {
	ID        ID        `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Country   string    `json:"country"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Country:   u.Country,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}
