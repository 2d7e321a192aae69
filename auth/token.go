package auth

import (
	"salonbook-backend/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	SalonID        string `json:"salonId,omitempty"`
	Role           string `json:"role"`
	ImpersonatedBy string `json:"impersonated_by,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret           []byte
	ttl              time.Duration
	impersonationTTL time.Duration
	now              func() time.Time
}

func NewTokenIssuer(secret string, ttl, impersonationTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:           []byte(secret),
		ttl:              ttl,
		impersonationTTL: impersonationTTL,
		now:              time.Now,
	}
}

func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	return i.sign(user, "", i.ttl)
}

// IssueImpersonation signs a short-lived token for user that remembers the admin
// who started the session.
func (i *TokenIssuer) IssueImpersonation(user *models.User, adminID uuid.UUID) (string, error) {
	return i.sign(user, adminID.String(), i.impersonationTTL)
}

func (i *TokenIssuer) sign(user *models.User, impersonatedBy string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Role:           user.Role,
		ImpersonatedBy: impersonatedBy,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.SalonID != nil {
		claims.SalonID = user.SalonID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Parse verifies the token and returns the actor it describes.
func (i *TokenIssuer) Parse(tokenString string) (*Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	salonID := uuid.Nil
	if claims.SalonID != "" {
		if salonID, err = uuid.Parse(claims.SalonID); err != nil {
			return nil, ErrInvalidToken
		}
	}
	var impersonatedBy *uuid.UUID
	if claims.ImpersonatedBy != "" {
		adminID, err := uuid.Parse(claims.ImpersonatedBy)
		if err != nil {
			return nil, ErrInvalidToken
		}
		impersonatedBy = &adminID
	}

	return NewActor(userID, salonID, claims.Role, impersonatedBy), nil
}
