package domain

import "time"

// Credentials are supplied by a login request and never persisted.
type Credentials struct {
	Email    Email    `validate:"required,email"`
	Password Password `validate:"required"`
}

// Registration is the input of a sign-up.
type Registration struct {
	Name     UserName `validate:"required"`
	Email    Email    `validate:"required,email"`
	Password Password `validate:"required,min=8,maxbytes=72"`
}

// AccessToken is the stored side of a bearer token. The string handed to
// clients only carries its Id and owner.
type AccessToken struct {
	Id        TokenId
	UserId    UserId
	CreatedAt time.Time
}
