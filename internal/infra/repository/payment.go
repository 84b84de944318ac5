package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func paymentFromModel(m models.Payment) domain.Payment {
	payment := domain.Payment{
		ID:              m.ID,
		Reference:       m.Reference,
		ContractID:      m.ContractID,
		Amount:          m.Amount,
		AmountExclVAT:   m.AmountExclVAT,
		AmountVAT:       m.AmountVAT,
		PayerID:         m.PayerID,
		PayerType:       domain.AccountType(m.PayerType),
		BeneficiaryID:   m.BeneficiaryID,
		BeneficiaryType: domain.AccountType(m.BeneficiaryType),
		Method:          domain.PaymentMethod(m.Method),
		Status:          domain.PaymentStatus(m.Status),
		DueDate:         m.DueDate,
		PaidAt:          m.PaidAt,
		CreatedAt:       m.CreatedAt,
	}
	if m.Contract.ID != 0 {
		payment.ContractTitle = m.Contract.Title
	}
	return payment
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	ctx, span := tracer.Start(ctx, "Payment.Create")
	defer span.End()

	record := models.Payment{
		Reference:       p.Reference,
		ContractID:      p.ContractID,
		Amount:          p.Amount,
		AmountExclVAT:   p.AmountExclVAT,
		AmountVAT:       p.AmountVAT,
		PayerID:         p.PayerID,
		PayerType:       string(p.PayerType),
		BeneficiaryID:   p.BeneficiaryID,
		BeneficiaryType: string(p.BeneficiaryType),
		Method:          string(p.Method),
		Status:          string(p.Status),
		DueDate:         p.DueDate,
	}
	if err := r.db.WithContext(ctx).Omit("Contract").Create(&record).Error; err != nil {
		return translate(err, "payment")
	}
	p.ID = record.ID
	p.CreatedAt = record.CreatedAt
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Payment.GetByID")
	defer span.End()

	var record models.Payment
	err := r.db.WithContext(ctx).
		Preload("Contract").
		First(&record, "id = ?", id).Error
	if err != nil {
		return domain.Payment{}, translate(err, "payment")
	}
	return paymentFromModel(record), nil
}

// Validate settles a pending payment. The status guard keeps a double
// validation from rewriting the settlement date.
func (r *PaymentRepository) Validate(ctx context.Context, id int64, paidAt time.Time) (domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Payment.Validate")
	defer span.End()

	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, string(domain.PaymentPending)).
		Updates(map[string]any{
			"status":  string(domain.PaymentValidated),
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return domain.Payment{}, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.Payment{}, err
		}
		return domain.Payment{}, domain.ConflictError{
			Code:   domain.CodeConflict,
			Reason: "payment is already " + string(current.Status),
		}
	}

	return r.GetByID(ctx, id)
}

func (r *PaymentRepository) ListByBeneficiary(ctx context.Context, beneficiaryID int64, beneficiaryType domain.AccountType) ([]domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Payment.ListByBeneficiary")
	defer span.End()

	var records []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Where("beneficiary_id = ? AND beneficiary_type = ?", beneficiaryID, string(beneficiaryType)).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(records))
	for _, record := range records {
		payments = append(payments, paymentFromModel(record))
	}
	return payments, nil
}

func (r *PaymentRepository) ListByPayer(ctx context.Context, payerID int64, payerType domain.AccountType) ([]domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "Payment.ListByPayer")
	defer span.End()

	var records []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Where("payer_id = ? AND payer_type = ?", payerID, string(payerType)).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(records))
	for _, record := range records {
		payments = append(payments, paymentFromModel(record))
	}
	return payments, nil
}
