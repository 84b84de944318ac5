package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
	"github.com/batimatch/batimatch/internal/usecase"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func contractFromModel(m models.Contract) domain.Contract {
	contract := domain.Contract{
		ID:                   m.ID,
		Title:                m.Title,
		Description:          m.Description,
		Amount:               m.Amount,
		Status:               domain.ContractStatus(m.Status),
		CompanyID:            m.CompanyID,
		FreelancerID:         m.FreelancerID,
		TenderID:             m.TenderID,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		BothPartiesSigned:    m.BothPartiesSigned,
		SignatureCompletedAt: m.SignatureCompletedAt,
		ProgressStage:        m.ProgressStage,
		CancelReason:         domain.CancelReason(m.CancelReason),
		CancelNote:           m.CancelNote,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.Company.ID != 0 {
		company := companyFromModel(m.Company)
		contract.Company = &company
	}
	if m.Freelancer != nil {
		freelancer := freelancerFromModel(*m.Freelancer)
		contract.Freelancer = &freelancer
	}
	for _, sig := range m.Signatures {
		contract.Signatures = append(contract.Signatures, signatureFromModel(sig))
	}
	for _, doc := range m.Documents {
		contract.Documents = append(contract.Documents, domain.Document{
			ID:         doc.ID,
			ContractID: doc.ContractID,
			Name:       doc.Name,
			URL:        doc.URL,
			MimeType:   doc.MimeType,
			UploadedAt: doc.UploadedAt,
		})
	}
	return contract
}

func signatureFromModel(m models.Signature) domain.Signature {
	return domain.Signature{
		ID:         m.ID,
		ContractID: m.ContractID,
		SignerRole: domain.SignerRole(m.SignerRole),
		Payload:    m.Payload,
		SignedAt:   m.SignedAt,
		IPAddress:  m.IPAddress,
	}
}

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	ctx, span := tracer.Start(ctx, "Contract.Create")
	defer span.End()

	record := models.Contract{
		Title:        c.Title,
		Description:  c.Description,
		Amount:       c.Amount,
		Status:       string(c.Status),
		CompanyID:    c.CompanyID,
		FreelancerID: c.FreelancerID,
		TenderID:     c.TenderID,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
	}
	if err := r.db.WithContext(ctx).Omit("Company", "Freelancer", "Tender").Create(&record).Error; err != nil {
		return translate(err, "contract")
	}
	c.ID = record.ID
	c.CreatedAt = record.CreatedAt
	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id int64) (domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "Contract.GetByID")
	defer span.End()

	var record models.Contract
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Freelancer").
		Preload("Signatures").
		Preload("Documents").
		First(&record, "id = ?", id).Error
	if err != nil {
		return domain.Contract{}, translate(err, "contract")
	}
	return contractFromModel(record), nil
}

func (r *ContractRepository) UpdateFields(ctx context.Context, id int64, patch usecase.ContractPatch) (domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "Contract.UpdateFields")
	defer span.End()

	assignments := map[string]any{"updated_at": time.Now()}
	if patch.Title != nil {
		assignments["title"] = *patch.Title
	}
	if patch.Description != nil {
		assignments["description"] = *patch.Description
	}
	if patch.Amount != nil {
		assignments["amount"] = *patch.Amount
	}
	if patch.StartDate != nil {
		assignments["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		assignments["end_date"] = *patch.EndDate
	}
	if patch.ProgressStage != nil {
		assignments["progress_stage"] = *patch.ProgressStage
	}

	result := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ?", id).
		Updates(assignments)
	if result.Error != nil {
		return domain.Contract{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Contract{}, domain.NotFoundError{Resource: "contract"}
	}

	return r.GetByID(ctx, id)
}

// Transition moves the status in one guarded statement: the update only fires
// while the row still holds the expected status. Zero affected rows is then
// disambiguated into not-found vs a lost status race.
func (r *ContractRepository) Transition(ctx context.Context, id int64, from, to domain.ContractStatus, set map[string]any) (domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "Contract.Transition")
	defer span.End()

	assignments := map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	for column, value := range set {
		assignments[column] = value
	}

	result := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(assignments)
	if result.Error != nil {
		return domain.Contract{}, result.Error
	}

	if result.RowsAffected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.Contract{}, err
		}
		return domain.Contract{}, domain.InvalidTransitionError{From: current.Status}
	}

	return r.GetByID(ctx, id)
}

// Sign inserts the signature and derives the resulting status inside one
// transaction holding a row lock on the contract. The unique index on
// (contract_id, signer_role) backs the duplicate check under concurrency.
func (r *ContractRepository) Sign(ctx context.Context, contractID int64, sig domain.Signature) (domain.Contract, error) {
	ctx, span := tracer.Start(ctx, "Contract.Sign")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.Contract
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ?", contractID).Error
		if err != nil {
			return translate(err, "contract")
		}

		if record.Status != string(domain.ContractPending) {
			return domain.InvalidTransitionError{From: domain.ContractStatus(record.Status), Action: "sign"}
		}

		row := models.Signature{
			ContractID: contractID,
			SignerRole: string(sig.SignerRole),
			Payload:    sig.Payload,
			SignedAt:   sig.SignedAt,
			IPAddress:  sig.IPAddress,
		}
		if err := tx.Omit("Contract").Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateSignature
			}
			return err
		}

		var signed int64
		if err := tx.Model(&models.Signature{}).Where("contract_id = ?", contractID).Count(&signed).Error; err != nil {
			return err
		}
		if signed < 2 {
			return nil
		}

		return tx.Model(&models.Contract{}).
			Where("id = ?", contractID).
			Updates(map[string]any{
				"status":                 string(domain.ContractSigned),
				"both_parties_signed":    true,
				"signature_completed_at": time.Now(),
				"updated_at":             time.Now(),
			}).Error
	})
	if err != nil {
		return domain.Contract{}, err
	}

	return r.GetByID(ctx, contractID)
}

func (r *ContractRepository) List(ctx context.Context, f usecase.ContractFilters) ([]domain.Contract, int64, error) {
	ctx, span := tracer.Start(ctx, "Contract.List")
	defer span.End()

	query := r.db.WithContext(ctx).Model(&models.Contract{})
	if f.Status != "" {
		query = query.Where("status = ?", string(f.Status))
	}
	if f.CompanyID != nil {
		query = query.Where("company_id = ?", *f.CompanyID)
	}
	if f.FreelancerID != nil {
		query = query.Where("freelancer_id = ?", *f.FreelancerID)
	}
	if f.TenderID != nil {
		query = query.Where("tender_id = ?", *f.TenderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := 0
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	if f.Page > 1 {
		offset = (f.Page - 1) * limit
	}

	var records []models.Contract
	err := query.
		Preload("Company").
		Preload("Freelancer").
		Preload("Signatures").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	contracts := make([]domain.Contract, 0, len(records))
	for _, record := range records {
		contracts = append(contracts, contractFromModel(record))
	}
	return contracts, total, nil
}

func (r *ContractRepository) Stats(ctx context.Context, f usecase.ContractStatsFilter) (domain.ContractStats, error) {
	ctx, span := tracer.Start(ctx, "Contract.Stats")
	defer span.End()

	scope := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Contract{})
		if f.CompanyID != nil {
			query = query.Where("company_id = ?", *f.CompanyID)
		}
		if f.FreelancerID != nil {
			query = query.Where("freelancer_id = ?", *f.FreelancerID)
		}
		return query
	}

	var stats domain.ContractStats
	counters := []struct {
		status domain.ContractStatus
		target *int64
	}{
		{domain.ContractDraft, &stats.Draft},
		{domain.ContractPending, &stats.Pending},
		{domain.ContractInProgress, &stats.InProgress},
		{domain.ContractCompleted, &stats.Completed},
	}
	if err := scope().Count(&stats.Total).Error; err != nil {
		return domain.ContractStats{}, err
	}
	for _, c := range counters {
		if err := scope().Where("status = ?", string(c.status)).Count(c.target).Error; err != nil {
			return domain.ContractStats{}, err
		}
	}

	err := scope().
		Where("status IN ?", []string{string(domain.ContractInProgress), string(domain.ContractCompleted)}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalAmount).Error
	if err != nil {
		return domain.ContractStats{}, err
	}

	return stats, nil
}
