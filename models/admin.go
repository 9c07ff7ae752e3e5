package models

import "github.com/dgrijalva/jwt-go"

type AdminClaims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}
