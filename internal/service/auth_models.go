package service

import "github.com/wdbprojects/instamart-backend/internal/entity"

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	UserAgent string
	IPAddress *string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress *string
}

// AuthResult carries everything the boundary needs after registration or
// login: the user without its password field plus the signed token pair.
type AuthResult struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// RefreshResult's RefreshToken is empty when the session was not close
// enough to expiry to rotate; the caller must keep using the old one.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}
