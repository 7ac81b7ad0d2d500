package domain

import "time"

type User struct {
	Id              UserId     `json:"id"`
	Name            UserName   `json:"name"`
	Email           Email      `json:"email"`
	PassHash        string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
