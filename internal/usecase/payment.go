package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/batimatch/batimatch/internal/domain"
)

var paymentTracer = otel.Tracer("usecase/payment")

type PaymentCreateInput struct {
	ContractID      int64
	Amount          float64
	PayerID         int64
	PayerType       domain.AccountType
	BeneficiaryID   int64
	BeneficiaryType domain.AccountType
	Method          domain.PaymentMethod
	DueDate         *time.Time
}

type PaymentUsecase struct {
	payments  PaymentRepository
	contracts ContractRepository
}

func NewPaymentUsecase(payments PaymentRepository, contracts ContractRepository) *PaymentUsecase {
	return &PaymentUsecase{payments: payments, contracts: contracts}
}

// Create records a ledger entry against a contract. The VAT split is derived
// from the gross amount; no money moves here.
func (uc *PaymentUsecase) Create(ctx context.Context, input PaymentCreateInput) (domain.Payment, error) {
	ctx, span := paymentTracer.Start(ctx, "Payment.Create")
	defer span.End()

	if _, err := uc.contracts.GetByID(ctx, input.ContractID); err != nil {
		return domain.Payment{}, err
	}

	exclVAT := input.Amount / (1 + domain.VATRate)
	payment := domain.Payment{
		Reference:       newPaymentReference(),
		ContractID:      input.ContractID,
		Amount:          input.Amount,
		AmountExclVAT:   exclVAT,
		AmountVAT:       input.Amount - exclVAT,
		PayerID:         input.PayerID,
		PayerType:       input.PayerType,
		BeneficiaryID:   input.BeneficiaryID,
		BeneficiaryType: input.BeneficiaryType,
		Method:          input.Method,
		Status:          domain.PaymentPending,
		DueDate:         input.DueDate,
	}

	if err := uc.payments.Create(ctx, &payment); err != nil {
		span.RecordError(err)
		return domain.Payment{}, err
	}
	return payment, nil
}

// Validate marks a pending payment as settled and stamps the payment date.
func (uc *PaymentUsecase) Validate(ctx context.Context, id int64) (domain.Payment, error) {
	ctx, span := paymentTracer.Start(ctx, "Payment.Validate")
	defer span.End()

	return uc.payments.Validate(ctx, id, time.Now())
}

func (uc *PaymentUsecase) Get(ctx context.Context, id int64) (domain.Payment, error) {
	return uc.payments.GetByID(ctx, id)
}

// FreelancerSummary aggregates what a freelancer received: platform vs cash
// totals, the commission cut and the resulting wallet balance.
func (uc *PaymentUsecase) FreelancerSummary(ctx context.Context, freelancerID int64) (domain.FreelancerPaymentSummary, error) {
	ctx, span := paymentTracer.Start(ctx, "Payment.FreelancerSummary")
	defer span.End()

	payments, err := uc.payments.ListByBeneficiary(ctx, freelancerID, domain.AccountFreelancer)
	if err != nil {
		return domain.FreelancerPaymentSummary{}, err
	}

	summary := domain.FreelancerPaymentSummary{History: []domain.PaymentHistoryEntry{}}
	for _, p := range payments {
		if p.Status != domain.PaymentValidated && p.Status != domain.PaymentCompleted {
			continue
		}

		summary.Total += p.Amount
		commission := p.Amount * domain.CommissionRate
		net := p.Amount - commission

		switch p.Method {
		case domain.PaymentCash:
			summary.Cash += p.Amount
			// Cash never transits the platform, so its commission is owed
			// back out of the wallet.
			summary.PendingCommissions += commission
		default:
			summary.Platform += p.Amount
			summary.Wallet += net
		}

		date := p.CreatedAt
		if p.PaidAt != nil {
			date = *p.PaidAt
		}
		summary.History = append(summary.History, domain.PaymentHistoryEntry{
			Date:       date,
			Mission:    missionLabel(p),
			Method:     p.Method,
			Amount:     p.Amount,
			Commission: commission,
			Net:        net,
			Status:     p.Status,
		})
	}

	return summary, nil
}

// CompanySummary aggregates what a company paid out, split by settlement
// state. Unlike the freelancer view, pending entries appear in the history.
func (uc *PaymentUsecase) CompanySummary(ctx context.Context, companyID int64) (domain.CompanyPaymentSummary, error) {
	ctx, span := paymentTracer.Start(ctx, "Payment.CompanySummary")
	defer span.End()

	payments, err := uc.payments.ListByPayer(ctx, companyID, domain.AccountCompany)
	if err != nil {
		return domain.CompanyPaymentSummary{}, err
	}

	summary := domain.CompanyPaymentSummary{History: []domain.PaymentHistoryEntry{}}
	for _, p := range payments {
		summary.Total += p.Amount
		switch p.Status {
		case domain.PaymentValidated, domain.PaymentCompleted:
			summary.Paid += p.Amount
		case domain.PaymentPending:
			summary.Pending += p.Amount
		}

		summary.History = append(summary.History, domain.PaymentHistoryEntry{
			Date:    p.CreatedAt,
			Mission: missionLabel(p),
			Method:  p.Method,
			Amount:  p.Amount,
			Status:  p.Status,
		})
	}

	return summary, nil
}

func missionLabel(p domain.Payment) string {
	if p.ContractTitle != "" {
		return p.ContractTitle
	}
	return fmt.Sprintf("Contract #%d", p.ContractID)
}

func newPaymentReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("PAY-%d-%s", time.Now().UnixMilli(), suffix)
}
