package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"metacircle/metasync/internal/constants"
)

// TokenTTL is how long an issued login token stays valid.
const TokenTTL = 24 * time.Hour

// UserClaims is what the rest of the app sees of an authenticated caller.
type UserClaims struct {
	UserID int
	Role   constants.Role
}

// IsAdmin reports whether the caller may manage tenants.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == constants.RoleAdmin || c.Role == constants.RoleMetaSyncAdmin
}

// IssueToken signs an HS256 JWT for the given user.
func IssueToken(secret string, userID int, role constants.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.Itoa(userID),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and extracts its claims.
func ParseToken(secret, tokenString string) (*UserClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return nil, fmt.Errorf("token subject %q is not a user id", sub)
	}

	role, _ := claims["role"].(string)
	return &UserClaims{UserID: userID, Role: constants.Role(role)}, nil
}
