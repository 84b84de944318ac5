package rest

import (
	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
	"github.com/batimatch/batimatch/internal/usecase"
)

type registerFreelancerRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	LastName        string  `json:"nom"`
	FirstName       string  `json:"prenom"`
	Phone           string  `json:"telephone"`
	Address         string  `json:"adresse"`
	City            string  `json:"ville"`
	PostalCode      string  `json:"codePostal"`
	Trade           string  `json:"metier"`
	DailyRate       float64 `json:"tarifJournalier"`
	RateMode        string  `json:"modeTarification"`
	Siret           string  `json:"siret"`
	ExperienceYears int     `json:"anneesExperience"`
	Description     string  `json:"description"`
}

func (h *Handler) handleRegisterFreelancer(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.RegisterFreelancer")
	defer span.End()

	var req registerFreelancerRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || len(req.Password) < 8 {
		return presenter.BadRequest(c, "email and a password of at least 8 characters are required")
	}
	if req.Trade == "" {
		return presenter.BadRequest(c, "metier is required")
	}

	result, err := h.auth.RegisterFreelancer(ctx, usecase.RegisterFreelancerInput{
		Email:           req.Email,
		Password:        req.Password,
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Trade:           req.Trade,
		DailyRate:       req.DailyRate,
		RateMode:        req.RateMode,
		Siret:           req.Siret,
		ExperienceYears: req.ExperienceYears,
		Description:     req.Description,
		UserAgent:       c.Request().UserAgent(),
		IPAddress:       c.RealIP(),
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.Created(c, result)
}

type registerCompanyRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	LegalName    string `json:"raisonSociale"`
	Siret        string `json:"siret"`
	LegalForm    string `json:"formeJuridique"`
	Sector       string `json:"secteurActivite"`
	CompanySize  string `json:"tailleEntreprise"`
	Phone        string `json:"telephone"`
	Address      string `json:"adresse"`
	City         string `json:"ville"`
	PostalCode   string `json:"codePostal"`
	ContactLast  string `json:"contactNom"`
	ContactFirst string `json:"contactPrenom"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactTelephone"`
}

func (h *Handler) handleRegisterCompany(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.RegisterCompany")
	defer span.End()

	var req registerCompanyRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || len(req.Password) < 8 {
		return presenter.BadRequest(c, "email and a password of at least 8 characters are required")
	}
	if req.LegalName == "" || req.Siret == "" {
		return presenter.BadRequest(c, "raisonSociale and siret are required")
	}

	result, err := h.auth.RegisterCompany(ctx, usecase.RegisterCompanyInput{
		Email:        req.Email,
		Password:     req.Password,
		LegalName:    req.LegalName,
		Siret:        req.Siret,
		LegalForm:    req.LegalForm,
		Sector:       req.Sector,
		CompanySize:  req.CompanySize,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		ContactLast:  req.ContactLast,
		ContactFirst: req.ContactFirst,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		UserAgent:    c.Request().UserAgent(),
		IPAddress:    c.RealIP(),
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.Created(c, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.Login")
	defer span.End()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return presenter.BadRequest(c, "email and password are required")
	}

	result, err := h.auth.Login(ctx, req.Email, req.Password, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) handleRefresh(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.Refresh")
	defer span.End()

	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return presenter.BadRequest(c, "refreshToken is required")
	}

	pair, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, pair)
}

func (h *Handler) handleLogout(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.Logout")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	var req refreshRequest
	_ = c.Bind(&req)

	if err := h.auth.Logout(ctx, userID, req.RefreshToken); err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMessage(c, "logged out")
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleForgotPassword(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ForgotPassword")
	defer span.End()

	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return presenter.BadRequest(c, "email is required")
	}

	if err := h.auth.ForgotPassword(ctx, req.Email); err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	// Always the same answer, whether or not the account exists.
	return presenter.OKMessage(c, "if the email exists, a reset link has been sent")
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) handleResetPassword(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ResetPassword")
	defer span.End()

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return presenter.BadRequest(c, "token and newPassword are required")
	}
	if len(req.NewPassword) < 8 {
		return presenter.BadRequest(c, "newPassword must be at least 8 characters")
	}

	if err := h.auth.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMessage(c, "password updated")
}

func (h *Handler) handleMe(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.Me")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	user, err := h.auth.Me(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, user)
}
