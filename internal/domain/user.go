package domain

import "time"

// User is the login identity. A user owns at most one freelancer profile and
// at most one company profile, discriminated by AccountType.
type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	AccountType  AccountType `json:"accountType"`
	LastName     string      `json:"lastName"`
	FirstName    string      `json:"firstName"`
	Phone        string      `json:"phone,omitempty"`
	Address      string      `json:"address,omitempty"`
	City         string      `json:"city,omitempty"`
	PostalCode   string      `json:"postalCode,omitempty"`
	ReferralCode string      `json:"referralCode,omitempty"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`

	Freelancer *Freelancer `json:"freelancer,omitempty"`
	Company    *Company    `json:"company,omitempty"`
}

// Session is a persisted refresh-token record enabling token renewal
// without re-authentication.
type Session struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserAgent    string    `json:"userAgent,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenPair is an access/refresh token couple issued on login, registration
// and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenClaims is the authenticated identity carried by a verified token.
type TokenClaims struct {
	UserID      int64       `json:"userId"`
	Email       string      `json:"email"`
	AccountType AccountType `json:"accountType"`
}
