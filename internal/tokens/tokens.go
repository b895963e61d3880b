package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/types"
)

// Claims is the token shape the gateway issues. Subject carries the
// user reference; roles arrive as plain strings.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username,omitempty"`
	DeviceID string   `json:"device_id,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Sign issues an HS256 token identifying the given caller, valid until
// expiry. Service-to-service calls such as scheduled replays mint their
// bearer token here so the auth middleware admits them like any client.
func Sign(secret string, rd *requestdata.RequestData, expiry time.Time) (string, error) {
	roles := make([]string, 0, len(rd.Roles))
	for _, role := range rd.Roles {
		roles = append(roles, string(role))
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rd.UserReference,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username: rd.Username,
		DeviceID: rd.DeviceID,
		Roles:    roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates an HS256 token and returns the caller it identifies.
func Parse(secret, tokenString string) (*requestdata.RequestData, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*Claims)
	if !ok || !parsedToken.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	roles := make([]types.Role, 0, len(claims.Roles))
	for _, role := range claims.Roles {
		roles = append(roles, types.Role(role))
	}
	return &requestdata.RequestData{
		UserReference: claims.Subject,
		Username:      claims.Username,
		DeviceID:      claims.DeviceID,
		Roles:         roles,
	}, nil
}
