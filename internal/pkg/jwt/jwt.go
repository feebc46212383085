package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Issuer is written to and required in every operator token
const Issuer = "checkin-bot"

// Claims represents operator token claims. The subject is the principal id;
// the role is looked up in the directory on every request, never trusted from the token.
type Claims struct {
	PrincipalID int64 `json:"principal_id"`
	jwt.RegisteredClaims
}

// GenerateOperatorToken signs a token for principalID valid for expiryMinutes
func GenerateOperatorToken(principalID int64, secret string, expiryMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		PrincipalID: principalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(principalID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateOperatorToken validates a token and returns its claims
func ValidateOperatorToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.PrincipalID <= 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
