package rest

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
	"github.com/batimatch/batimatch/internal/usecase"
)

type paymentCreateRequest struct {
	ContractID      int64                `json:"contratId"`
	Amount          float64              `json:"montant"`
	PayerID         int64                `json:"payeurId"`
	PayerType       domain.AccountType   `json:"typePayeur"`
	BeneficiaryID   int64                `json:"beneficiaireId"`
	BeneficiaryType domain.AccountType   `json:"typeBeneficiaire"`
	Method          domain.PaymentMethod `json:"methodePaiement"`
	DueDate         *time.Time           `json:"dateEcheance"`
}

func (h *Handler) handleCreatePayment(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.CreatePayment")
	defer span.End()

	var req paymentCreateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}
	if req.ContractID <= 0 || req.Amount <= 0 {
		return presenter.BadRequest(c, "contratId and a positive montant are required")
	}

	payment, err := h.payments.Create(ctx, usecase.PaymentCreateInput{
		ContractID:      req.ContractID,
		Amount:          req.Amount,
		PayerID:         req.PayerID,
		PayerType:       req.PayerType,
		BeneficiaryID:   req.BeneficiaryID,
		BeneficiaryType: req.BeneficiaryType,
		Method:          req.Method,
		DueDate:         req.DueDate,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.Created(c, payment)
}

func (h *Handler) handleValidatePayment(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ValidatePayment")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	payment, err := h.payments.Validate(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, payment)
}

func (h *Handler) handleGetPayment(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.GetPayment")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	payment, err := h.payments.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, payment)
}

func (h *Handler) handleFreelancerPayments(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.FreelancerPayments")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	freelancer, err := h.freelancers.GetByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	summary, err := h.payments.FreelancerSummary(ctx, freelancer.ID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, summary)
}

func (h *Handler) handleCompanyPayments(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.CompanyPayments")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	company, err := h.companies.GetByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	summary, err := h.payments.CompanySummary(ctx, company.ID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, summary)
}
