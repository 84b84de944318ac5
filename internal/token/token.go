package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/batimatch/batimatch/internal/domain"
)

// Claims are the JWT claims carried by both access and refresh tokens.
type Claims struct {
	UserID      int64              `json:"userId"`
	Email       string             `json:"email"`
	AccountType domain.AccountType `json:"accountType"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access/refresh token pairs. Access and refresh
// tokens use separate secrets so a leaked access secret cannot mint sessions.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL exposes the refresh lifetime so session rows can share the expiry.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// IssuePair creates a fresh access/refresh token couple for a user.
func (i *Issuer) IssuePair(userID int64, email string, accountType domain.AccountType) (domain.TokenPair, error) {
	access, err := i.sign(userID, email, accountType, i.accessSecret, i.accessTTL)
	if err != nil {
		return domain.TokenPair{}, errors.Wrap(err, "signing access token")
	}
	refresh, err := i.sign(userID, email, accountType, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, errors.Wrap(err, "signing refresh token")
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(userID int64, email string, accountType domain.AccountType, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		Email:       email,
		AccountType: accountType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess parses and validates an access token.
func (i *Issuer) VerifyAccess(tokenString string) (domain.TokenClaims, error) {
	return i.verify(tokenString, i.accessSecret)
}

// VerifyRefresh parses and validates a refresh token.
func (i *Issuer) VerifyRefresh(tokenString string) (domain.TokenClaims, error) {
	return i.verify(tokenString, i.refreshSecret)
}

func (i *Issuer) verify(tokenString string, secret []byte) (domain.TokenClaims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.TokenClaims{}, domain.UnauthorizedError{Reason: "invalid or expired token"}
	}
	return domain.TokenClaims{
		UserID:      claims.UserID,
		Email:       claims.Email,
		AccountType: claims.AccountType,
	}, nil
}
