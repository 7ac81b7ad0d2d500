package domain

type (
	Email    = string
	Password = string
	UserId   = int64
	UserName = string
	TokenId  = string
	Token    = string
)
