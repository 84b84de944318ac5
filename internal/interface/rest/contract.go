package rest

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
	"github.com/batimatch/batimatch/internal/usecase"
)

type contractCreateRequest struct {
	Title        string     `json:"titre"`
	Description  string     `json:"description"`
	Amount       float64    `json:"montant"`
	CompanyID    *int64     `json:"entrepriseId"`
	FreelancerID *int64     `json:"freelanceId"`
	TenderID     *int64     `json:"appelOffreId"`
	StartDate    *time.Time `json:"dateDebut"`
	EndDate      *time.Time `json:"dateFin"`
}

func (h *Handler) handleCreateContract(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.CreateContract")
	defer span.End()

	callerID, _ := middleware.RequesterID(c)

	var req contractCreateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}
	if req.Title == "" || req.Amount <= 0 {
		return presenter.BadRequest(c, "titre and a positive montant are required")
	}

	contract, err := h.contracts.Create(ctx, callerID, usecase.ContractCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Amount:       req.Amount,
		CompanyID:    req.CompanyID,
		FreelancerID: req.FreelancerID,
		TenderID:     req.TenderID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.Created(c, contract)
}

func (h *Handler) handleListContracts(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ListContracts")
	defer span.End()

	filters := usecase.ContractFilters{
		Status: domain.ContractStatus(c.QueryParam("statut")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	if v := queryFloat(c, "entrepriseId"); v != nil {
		id := int64(*v)
		filters.CompanyID = &id
	}
	if v := queryFloat(c, "freelanceId"); v != nil {
		id := int64(*v)
		filters.FreelancerID = &id
	}
	if v := queryFloat(c, "appelOffreId"); v != nil {
		id := int64(*v)
		filters.TenderID = &id
	}

	contracts, total, err := h.contracts.List(ctx, filters)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMeta(c, contracts, pageMeta{Total: total, Page: filters.Page, TotalPages: totalPages(total, filters.Limit)})
}

func (h *Handler) handleMyContracts(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.MyContracts")
	defer span.End()

	callerID, _ := middleware.RequesterID(c)
	accountType, _ := middleware.RequesterType(c)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	contracts, total, err := h.contracts.ListMine(ctx, callerID, accountType, page, limit)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMeta(c, contracts, pageMeta{Total: total, Page: page, TotalPages: totalPages(total, limit)})
}

func (h *Handler) handleContractStats(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ContractStats")
	defer span.End()

	callerID, _ := middleware.RequesterID(c)
	accountType, _ := middleware.RequesterType(c)

	stats, err := h.contracts.StatsFor(ctx, callerID, accountType)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, stats)
}

func (h *Handler) handleGetContract(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.GetContract")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	contract, err := h.contracts.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, contract)
}

type contractUpdateRequest struct {
	Title         *string    `json:"titre"`
	Description   *string    `json:"description"`
	Amount        *float64   `json:"montant"`
	StartDate     *time.Time `json:"dateDebut"`
	EndDate       *time.Time `json:"dateFin"`
	ProgressStage *string    `json:"etapeProjet"`
}

func (h *Handler) handleUpdateContract(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.UpdateContract")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	var req contractUpdateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	contract, err := h.contracts.Update(ctx, id, usecase.ContractPatch{
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		ProgressStage: req.ProgressStage,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, contract)
}

func (h *Handler) handleSendContract(c echo.Context) error {
	return h.transitionContract(c, "Handler.SendContract", h.contracts.SendForSignature)
}

func (h *Handler) handleStartContract(c echo.Context) error {
	return h.transitionContract(c, "Handler.StartContract", h.contracts.Start)
}

func (h *Handler) handleCompleteContract(c echo.Context) error {
	return h.transitionContract(c, "Handler.CompleteContract", h.contracts.Complete)
}

func (h *Handler) transitionContract(c echo.Context, spanName string, transition func(ctx context.Context, id int64) (domain.Contract, error)) error {
	ctx, span := tracer.Start(c.Request().Context(), spanName)
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	contract, err := transition(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, contract)
}

type signRequest struct {
	Signature string `json:"signature"`
}

func (h *Handler) handleSignContract(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.SignContract")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}
	callerID, _ := middleware.RequesterID(c)

	var req signRequest
	if err := c.Bind(&req); err != nil || req.Signature == "" {
		return presenter.BadRequest(c, "signature is required")
	}

	contract, err := h.contracts.Sign(ctx, id, callerID, req.Signature, c.RealIP())
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, contract)
}

type cancelRequest struct {
	Reason domain.CancelReason `json:"motif"`
	Note   string              `json:"commentaire"`
}

func (h *Handler) handleCancelContract(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.CancelContract")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	var req cancelRequest
	_ = c.Bind(&req)

	contract, err := h.contracts.Cancel(ctx, id, req.Reason, req.Note)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, contract)
}
