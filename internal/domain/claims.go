package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Claims identifica o operador que chama a API de administração
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
