package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are carried by issued access tokens. Subject holds the user id.
type Claims struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}
