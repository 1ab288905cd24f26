package auth

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "chat-relay"

// Session is the identity a connection acts as once its token is validated.
type Session struct {
	UserID   domain.Identity
	Username string
	Lang     string
}

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Lang     string `json:"lang,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 session tokens with a shared secret.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateToken creates a signed JWT for a session.
func (m *TokenManager) GenerateToken(session Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID:   session.UserID,
		Username: session.Username,
		Lang:     session.Lang,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   session.UserID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken parses the token, checks signature, algorithm and expiry, and returns
// the session it names. The pseudo-identities can never be claimed by a client.
func (m *TokenManager) ValidateToken(tokenString string) (Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Session{}, errors.ErrInvalidToken
	}
	if domain.IsPseudoIdentity(claims.UserID) {
		return Session{}, fmt.Errorf("%w: reserved identity %q", errors.ErrInvalidToken, claims.UserID)
	}
	if !domain.IsKeySafe(claims.UserID) {
		return Session{}, fmt.Errorf("%w: identity %q contains %q", errors.ErrInvalidToken, claims.UserID, domain.KeySeparator)
	}
	return Session{UserID: claims.UserID, Username: claims.Username, Lang: claims.Lang}, nil
}
