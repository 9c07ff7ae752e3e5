package authentication

import (
	"care-connect/models"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var doctorJWTKey = []byte("doctorKey")

// Generating jwt token for doctor
func GenerateDoctorToken(doctorID uint, email string) (string, error) {
	claims := &models.DoctorClaims{
		Id:          doctorID,
		DoctorEmail: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(doctorJWTKey)
}

func AuthenticateDoctor(signedStringToken string) (uint, string, error) {
	var claims models.DoctorClaims
	token, err := jwt.ParseWithClaims(signedStringToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return doctorJWTKey, nil
	})
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", errors.New("token is not valid")
	}
	return claims.Id, claims.DoctorEmail, nil
}

// DoctorAuthMiddleware
func DoctorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized. Please log in again."})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))
		doctorID, email, err := AuthenticateDoctor(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.Set("doctorID", doctorID)
		c.Set("doctorEmail", email)
		c.Next()
	}
}
