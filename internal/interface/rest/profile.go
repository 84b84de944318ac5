package rest

import (
	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
	"github.com/batimatch/batimatch/internal/usecase"
)

func (h *Handler) handleListFreelancers(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ListFreelancers")
	defer span.End()

	filters := usecase.FreelancerFilters{
		Trade: c.QueryParam("metier"),
		City:  c.QueryParam("ville"),
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}
	if v := c.QueryParam("disponible"); v != "" {
		available := v == "true"
		filters.Available = &available
	}

	page, err := h.freelancers.List(ctx, filters)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMeta(c, page.Items, pageMeta{Total: page.Total, Page: page.Page, TotalPages: page.TotalPages})
}

func (h *Handler) handleGetFreelancer(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.GetFreelancer")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	freelancer, err := h.freelancers.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, freelancer)
}

func (h *Handler) handleMyFreelancerProfile(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.MyFreelancerProfile")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	freelancer, err := h.freelancers.GetByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, freelancer)
}

type freelancerUpdateRequest struct {
	LastName        *string                    `json:"nom"`
	FirstName       *string                    `json:"prenom"`
	Phone           *string                    `json:"telephone"`
	Trade           *string                    `json:"metier"`
	DailyRate       *float64                   `json:"tarifJournalier"`
	RateMode        *string                    `json:"modeTarification"`
	Siret           *string                    `json:"siret"`
	ExperienceYears *int                       `json:"anneesExperience"`
	Description     *string                    `json:"description"`
	Address         *string                    `json:"adresse"`
	City            *string                    `json:"ville"`
	PostalCode      *string                    `json:"codePostal"`
	Available       *bool                      `json:"disponible"`
	Availability    *domain.WeeklyAvailability `json:"disponibilites"`
}

func (h *Handler) handleUpdateFreelancer(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.UpdateFreelancer")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	var req freelancerUpdateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	freelancer, err := h.freelancers.UpdateOwn(ctx, userID, usecase.FreelancerPatch{
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		Phone:           req.Phone,
		Trade:           req.Trade,
		DailyRate:       req.DailyRate,
		RateMode:        req.RateMode,
		Siret:           req.Siret,
		ExperienceYears: req.ExperienceYears,
		Description:     req.Description,
		Address:         req.Address,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Available:       req.Available,
		Availability:    req.Availability,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, freelancer)
}

func (h *Handler) handleListCompanies(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ListCompanies")
	defer span.End()

	page, err := h.companies.List(ctx, usecase.CompanyFilters{
		City:      c.QueryParam("ville"),
		LegalForm: c.QueryParam("formeJuridique"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 20),
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMeta(c, page.Items, pageMeta{Total: page.Total, Page: page.Page, TotalPages: page.TotalPages})
}

func (h *Handler) handleGetCompany(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.GetCompany")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	company, err := h.companies.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, company)
}

func (h *Handler) handleMyCompanyProfile(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.MyCompanyProfile")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	company, err := h.companies.GetByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, company)
}

type companyUpdateRequest struct {
	LegalName    *string `json:"raisonSociale"`
	Siret        *string `json:"siret"`
	LegalForm    *string `json:"formeJuridique"`
	Sector       *string `json:"secteurActivite"`
	CompanySize  *string `json:"tailleEntreprise"`
	Phone        *string `json:"telephone"`
	Address      *string `json:"adresse"`
	City         *string `json:"ville"`
	PostalCode   *string `json:"codePostal"`
	Website      *string `json:"siteWeb"`
	Description  *string `json:"description"`
	ContactLast  *string `json:"contactNom"`
	ContactFirst *string `json:"contactPrenom"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactTelephone"`
}

func (h *Handler) handleUpdateCompany(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.UpdateCompany")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	var req companyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	company, err := h.companies.UpdateOwn(ctx, userID, usecase.CompanyPatch{
		LegalName:    req.LegalName,
		Siret:        req.Siret,
		LegalForm:    req.LegalForm,
		Sector:       req.Sector,
		CompanySize:  req.CompanySize,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Website:      req.Website,
		Description:  req.Description,
		ContactLast:  req.ContactLast,
		ContactFirst: req.ContactFirst,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, company)
}

// pageMeta is the meta block attached to paged listings.
type pageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int64 `json:"totalPages"`
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		limit = 20
	}
	return (total + int64(limit) - 1) / int64(limit)
}
