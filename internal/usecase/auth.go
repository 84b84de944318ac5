package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/batimatch/batimatch/internal/domain"
)

var authTracer = otel.Tracer("usecase/auth")

// TokenIssuer abstracts JWT pair creation and verification.
type TokenIssuer interface {
	IssuePair(userID int64, email string, accountType domain.AccountType) (domain.TokenPair, error)
	VerifyRefresh(token string) (domain.TokenClaims, error)
}

type RegisterFreelancerInput struct {
	Email           string
	Password        string
	LastName        string
	FirstName       string
	Phone           string
	Address         string
	City            string
	PostalCode      string
	Trade           string
	DailyRate       float64
	RateMode        string
	Siret           string
	ExperienceYears int
	Description     string
	UserAgent       string
	IPAddress       string
}

type RegisterCompanyInput struct {
	Email        string
	Password     string
	LegalName    string
	Siret        string
	LegalForm    string
	Sector       string
	CompanySize  string
	Phone        string
	Address      string
	City         string
	PostalCode   string
	ContactLast  string
	ContactFirst string
	ContactEmail string
	ContactPhone string
	UserAgent    string
	IPAddress    string
}

// AuthResult couples the authenticated user with a fresh token pair.
type AuthResult struct {
	User   domain.User      `json:"user"`
	Tokens domain.TokenPair `json:"tokens"`
}

type AuthUsecase struct {
	users      UserRepository
	sessions   SessionRepository
	companies  CompanyRepository
	issuer     TokenIssuer
	bcryptCost int
	resetTTL   time.Duration
	sessionTTL time.Duration
}

func NewAuthUsecase(
	users UserRepository,
	sessions SessionRepository,
	companies CompanyRepository,
	issuer TokenIssuer,
	bcryptCost int,
	resetTTL time.Duration,
	sessionTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		sessions:   sessions,
		companies:  companies,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		resetTTL:   resetTTL,
		sessionTTL: sessionTTL,
	}
}

// RegisterFreelancer creates the user and freelancer profile rows in one
// transaction and opens a session.
func (uc *AuthUsecase) RegisterFreelancer(ctx context.Context, input RegisterFreelancerInput) (AuthResult, error) {
	ctx, span := authTracer.Start(ctx, "Auth.RegisterFreelancer")
	defer span.End()

	email := normalizeEmail(input.Email)
	if err := uc.checkEmailFree(ctx, email); err != nil {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return AuthResult{}, errors.Wrap(err, "hashing password")
	}

	user := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		AccountType:  domain.AccountFreelancer,
		LastName:     input.LastName,
		FirstName:    input.FirstName,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		PostalCode:   input.PostalCode,
		ReferralCode: newReferralCode(),
		IsActive:     true,
	}
	profile := domain.Freelancer{
		LastName:        input.LastName,
		FirstName:       input.FirstName,
		Email:           email,
		Phone:           input.Phone,
		Trade:           input.Trade,
		DailyRate:       input.DailyRate,
		RateMode:        defaultString(input.RateMode, "JOUR"),
		Siret:           input.Siret,
		ExperienceYears: input.ExperienceYears,
		Description:     input.Description,
		Address:         input.Address,
		City:            input.City,
		PostalCode:      input.PostalCode,
		Available:       true,
	}

	if err := uc.users.CreateWithFreelancer(ctx, &user, &profile); err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}
	user.Freelancer = &profile

	return uc.openSession(ctx, user, input.UserAgent, input.IPAddress)
}

// RegisterCompany creates the user and company profile rows in one
// transaction and opens a session. The fiscal identifier must be unused.
func (uc *AuthUsecase) RegisterCompany(ctx context.Context, input RegisterCompanyInput) (AuthResult, error) {
	ctx, span := authTracer.Start(ctx, "Auth.RegisterCompany")
	defer span.End()

	email := normalizeEmail(input.Email)
	if err := uc.checkEmailFree(ctx, email); err != nil {
		return AuthResult{}, err
	}

	if _, err := uc.companies.GetBySiret(ctx, input.Siret); err == nil {
		return AuthResult{}, domain.ConflictError{Code: domain.CodeSiretExists, Reason: "this SIRET is already registered"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return AuthResult{}, errors.Wrap(err, "hashing password")
	}

	user := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		AccountType:  domain.AccountCompany,
		LastName:     input.ContactLast,
		FirstName:    input.ContactFirst,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		PostalCode:   input.PostalCode,
		ReferralCode: newReferralCode(),
		IsActive:     true,
	}
	profile := domain.Company{
		LegalName:    input.LegalName,
		Siret:        input.Siret,
		LegalForm:    input.LegalForm,
		Sector:       input.Sector,
		CompanySize:  input.CompanySize,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		PostalCode:   input.PostalCode,
		ContactLast:  input.ContactLast,
		ContactFirst: input.ContactFirst,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}

	if err := uc.users.CreateWithCompany(ctx, &user, &profile); err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}
	user.Company = &profile

	return uc.openSession(ctx, user, input.UserAgent, input.IPAddress)
}

// Login verifies credentials and opens an additional session. Existing
// sessions are left untouched.
func (uc *AuthUsecase) Login(ctx context.Context, email, password, userAgent, ip string) (AuthResult, error) {
	ctx, span := authTracer.Start(ctx, "Auth.Login")
	defer span.End()

	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.UnauthorizedError{Reason: "invalid email or password"}
		}
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, domain.UnauthorizedError{Reason: "invalid email or password"}
	}

	if !user.IsActive {
		return AuthResult{}, domain.UnauthorizedError{Reason: "this account has been disabled"}
	}

	return uc.openSession(ctx, user, userAgent, ip)
}

// Refresh validates a refresh token against a stored session and rotates both
// the token pair and the session row.
func (uc *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	ctx, span := authTracer.Start(ctx, "Auth.Refresh")
	defer span.End()

	claims, err := uc.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	session, err := uc.sessions.GetByToken(ctx, claims.UserID, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenPair{}, domain.UnauthorizedError{Reason: "session invalid or expired"}
		}
		return domain.TokenPair{}, err
	}

	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return domain.TokenPair{}, domain.UnauthorizedError{Reason: "user not found or inactive"}
	}

	pair, err := uc.issuer.IssuePair(user.ID, user.Email, user.AccountType)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := uc.sessions.Rotate(ctx, session.ID, pair.RefreshToken, time.Now().Add(uc.sessionTTL)); err != nil {
		return domain.TokenPair{}, err
	}

	return pair, nil
}

// Logout removes the session matching the refresh token, or every session of
// the user when no token is provided.
func (uc *AuthUsecase) Logout(ctx context.Context, userID int64, refreshToken string) error {
	ctx, span := authTracer.Start(ctx, "Auth.Logout")
	defer span.End()

	if refreshToken == "" {
		return uc.sessions.DeleteAll(ctx, userID)
	}
	return uc.sessions.Delete(ctx, userID, refreshToken)
}

// ForgotPassword stores a single-use reset token on the user row. Silent on
// unknown emails so the endpoint does not leak account existence. Dispatch is
// logged only; email delivery is out of scope.
func (uc *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := authTracer.Start(ctx, "Auth.ForgotPassword")
	defer span.End()

	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	resetToken := uuid.NewString()
	if err := uc.users.SetResetToken(ctx, user.ID, resetToken, time.Now().Add(uc.resetTTL)); err != nil {
		return err
	}

	slog.Info("password reset token issued", "userId", user.ID)
	return nil
}

// ResetPassword consumes the reset token (compare-and-clear) and revokes all
// existing sessions for the user.
func (uc *AuthUsecase) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	ctx, span := authTracer.Start(ctx, "Auth.ResetPassword")
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), uc.bcryptCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}

	userID, err := uc.users.ConsumeResetToken(ctx, resetToken, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UnauthorizedError{Reason: "reset token invalid or expired"}
		}
		return err
	}

	return uc.sessions.DeleteAll(ctx, userID)
}

// Me returns the current user with the attached profile.
func (uc *AuthUsecase) Me(ctx context.Context, userID int64) (domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *AuthUsecase) checkEmailFree(ctx context.Context, email string) error {
	_, err := uc.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.ConflictError{Code: domain.CodeEmailExists, Reason: "this email is already in use"}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (uc *AuthUsecase) openSession(ctx context.Context, user domain.User, userAgent, ip string) (AuthResult, error) {
	pair, err := uc.issuer.IssuePair(user.ID, user.Email, user.AccountType)
	if err != nil {
		return AuthResult{}, err
	}

	session := domain.Session{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    time.Now().Add(uc.sessionTTL),
		UserAgent:    userAgent,
		IPAddress:    ip,
	}
	if err := uc.sessions.Create(ctx, &session); err != nil {
		return AuthResult{}, err
	}

	user.PasswordHash = ""
	return AuthResult{User: user, Tokens: pair}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
