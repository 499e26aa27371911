package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID  string
	Username string
	Role     string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to logged-in admins.
type AccessTokenClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
