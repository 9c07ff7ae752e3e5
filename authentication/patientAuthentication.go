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

var patientJWTKey = []byte("secretKey")

// Configure installs the signing keys from the loaded configuration. Called
// once at startup before any token is issued or verified.
func Configure(patientKey, doctorKey, adminKey string) {
	if patientKey != "" {
		patientJWTKey = []byte(patientKey)
	}
	if doctorKey != "" {
		doctorJWTKey = []byte(doctorKey)
	}
	if adminKey != "" {
		adminJWTKey = []byte(adminKey)
	}
}

// Generating jwt token for patient
func GeneratePatientToken(patientID uint, phone string) (string, error) {
	claims := &models.PatientClaims{
		PatientID: patientID,
		Phone:     phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(patientJWTKey)
}

// AuthenticatePatient verifies a signed patient token and returns the
// subject identity it carries.
func AuthenticatePatient(signedStringToken string) (uint, string, error) {
	var claims models.PatientClaims
	token, err := jwt.ParseWithClaims(signedStringToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return patientJWTKey, nil
	})
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", errors.New("token is not valid")
	}
	return claims.PatientID, claims.Phone, nil
}

// PatientAuthMiddleware attaches the authenticated patient id to the
// request context. Handlers downstream trust only this id, never request
// body fields.
func PatientAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized. Please log in again."})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))
		patientID, phone, err := AuthenticatePatient(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.Set("patientID", patientID)
		c.Set("patientPhone", phone)
		c.Next()
	}
}
