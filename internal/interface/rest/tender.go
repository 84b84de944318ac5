package rest

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
	"github.com/batimatch/batimatch/internal/usecase"
)

type tenderCreateRequest struct {
	Title            string     `json:"titre"`
	Description      string     `json:"description"`
	Budget           string     `json:"budget"`
	BudgetMin        *float64   `json:"budgetMin"`
	BudgetMax        *float64   `json:"budgetMax"`
	City             string     `json:"ville"`
	ConstructionType string     `json:"typeConstruction"`
	Sector           string     `json:"secteur"`
	Audience         string     `json:"destinataire"`
	Deadline         *time.Time `json:"dateLimite"`
}

func (h *Handler) handleCreateTender(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.CreateTender")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	var req tenderCreateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}
	if req.Title == "" || req.Description == "" {
		return presenter.BadRequest(c, "titre and description are required")
	}

	tender, err := h.tenders.Create(ctx, userID, usecase.TenderCreateInput{
		Title:            req.Title,
		Description:      req.Description,
		Budget:           req.Budget,
		BudgetMin:        req.BudgetMin,
		BudgetMax:        req.BudgetMax,
		City:             req.City,
		ConstructionType: req.ConstructionType,
		Sector:           req.Sector,
		Audience:         req.Audience,
		Deadline:         req.Deadline,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.Created(c, tender)
}

func (h *Handler) handleListTenders(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ListTenders")
	defer span.End()

	filters := usecase.TenderFilters{
		City:             c.QueryParam("ville"),
		ConstructionType: c.QueryParam("typeConstruction"),
		BudgetMin:        queryFloat(c, "budgetMin"),
		BudgetMax:        queryFloat(c, "budgetMax"),
		Keywords:         strings.Fields(c.QueryParam("q")),
		Page:             queryInt(c, "page", 1),
		Limit:            queryInt(c, "limit", 20),
	}

	mine := c.QueryParam("mine") == "true"
	callerID, authed := middleware.RequesterID(c)
	if mine && !authed {
		return presenter.Unauthorized(c, "authentication required")
	}

	page, err := h.tenders.List(ctx, callerID, mine, filters)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMeta(c, page.Tenders, pageMeta{Total: page.Total, Page: page.Page, TotalPages: page.TotalPages})
}

func (h *Handler) handleGetTender(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.GetTender")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	tender, err := h.tenders.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, tender)
}

type applyRequest struct {
	CandidateType  domain.AccountType `json:"typeCandidat"`
	Proposal       string             `json:"proposition"`
	ProposedBudget *float64           `json:"budgetPropose"`
	ProposedLength string             `json:"dureeProposee"`
}

func (h *Handler) handleApply(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.Apply")
	defer span.End()

	tenderID, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}
	callerID, _ := middleware.RequesterID(c)

	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}
	if req.CandidateType == "" {
		if t, ok := middleware.RequesterType(c); ok {
			req.CandidateType = t
		}
	}

	application, err := h.tenders.Apply(ctx, tenderID, callerID, usecase.ApplyInput{
		CandidateType:  req.CandidateType,
		Proposal:       req.Proposal,
		ProposedBudget: req.ProposedBudget,
		ProposedLength: req.ProposedLength,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.Created(c, application)
}

func (h *Handler) handleListApplications(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ListApplications")
	defer span.End()

	tenderID, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	applications, err := h.tenders.ListApplications(ctx, tenderID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, applications)
}

func (h *Handler) handleAcceptApplication(c echo.Context) error {
	return h.decideApplication(c, "Handler.AcceptApplication", h.tenders.AcceptApplication)
}

func (h *Handler) handleRejectApplication(c echo.Context) error {
	return h.decideApplication(c, "Handler.RejectApplication", h.tenders.RejectApplication)
}

func (h *Handler) decideApplication(c echo.Context, spanName string, decide func(ctx context.Context, tenderID, applicationID int64) error) error {
	ctx, span := tracer.Start(c.Request().Context(), spanName)
	defer span.End()

	tenderID, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}
	applicationID, err := pathID(c, "appID")
	if err != nil {
		return presenter.Error(c, err)
	}

	if err := decide(ctx, tenderID, applicationID); err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMessage(c, "application updated")
}

func (h *Handler) handleTenderStats(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.TenderStats")
	defer span.End()

	callerID, _ := middleware.RequesterID(c)

	stats, err := h.tenders.Stats(ctx, callerID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, stats)
}
