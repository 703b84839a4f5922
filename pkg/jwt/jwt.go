package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject datos de identidad que viajan en el token.
type Subject struct {
	UserID           string
	Role             string // "admin" | "bodeguero" | "contador" | "vendedor"
	RepresentativeID string
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que la tabla de permisos decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID           string `json:"user_id"`
	Role             string `json:"role"`
	RepresentativeID string `json:"representative_id,omitempty"`
}

// Generate genera un token JWT firmado (HS256) para el sujeto.
func Generate(secret string, sub Subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:           sub.UserID,
		Role:             sub.Role,
		RepresentativeID: sub.RepresentativeID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el sujeto.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Subject, error) {
	if secret == "" {
		return Subject{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Subject{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Subject{}, fmt.Errorf("claims inválidos")
	}
	return Subject{UserID: claims.UserID, Role: claims.Role, RepresentativeID: claims.RepresentativeID}, nil
}
