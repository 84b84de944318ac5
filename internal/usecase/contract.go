package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/batimatch/batimatch/internal/domain"
)

var contractTracer = otel.Tracer("usecase/contract")

type ContractCreateInput struct {
	Title        string
	Description  string
	Amount       float64
	CompanyID    *int64 // explicit party; otherwise resolved from the caller
	FreelancerID *int64 // nil = open contract awaiting assignment
	TenderID     *int64
	StartDate    *time.Time
	EndDate      *time.Time
}

// ContractPatch carries the mutable contract fields. Nil means unchanged.
type ContractPatch struct {
	Title         *string
	Description   *string
	Amount        *float64
	StartDate     *time.Time
	EndDate       *time.Time
	ProgressStage *string
}

func (p ContractPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Amount == nil &&
		p.StartDate == nil && p.EndDate == nil && p.ProgressStage == nil
}

type ContractUsecase struct {
	contracts     ContractRepository
	companies     CompanyRepository
	freelancers   FreelancerRepository
	notifications *NotificationUsecase
}

func NewContractUsecase(
	contracts ContractRepository,
	companies CompanyRepository,
	freelancers FreelancerRepository,
	notifications *NotificationUsecase,
) *ContractUsecase {
	return &ContractUsecase{
		contracts:     contracts,
		companies:     companies,
		freelancers:   freelancers,
		notifications: notifications,
	}
}

// Create opens a contract in draft status. The company party is either given
// explicitly or resolved from the caller's own company profile; the
// freelancer party is optional ("open" contract awaiting assignment).
func (uc *ContractUsecase) Create(ctx context.Context, callerID int64, input ContractCreateInput) (domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.Create")
	defer span.End()

	var company domain.Company
	var err error
	if input.CompanyID != nil {
		company, err = uc.companies.GetByID(ctx, *input.CompanyID)
	} else {
		company, err = uc.companies.GetByUserID(ctx, callerID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Contract{}, domain.NotFoundError{Resource: "company"}
		}
		return domain.Contract{}, err
	}

	if input.FreelancerID != nil {
		if _, err := uc.freelancers.GetByID(ctx, *input.FreelancerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Contract{}, domain.NotFoundError{Resource: "freelancer"}
			}
			return domain.Contract{}, err
		}
	}

	contract := domain.Contract{
		Title:        input.Title,
		Description:  input.Description,
		Amount:       input.Amount,
		Status:       domain.ContractDraft,
		CompanyID:    company.ID,
		FreelancerID: input.FreelancerID,
		TenderID:     input.TenderID,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}
	if err := uc.contracts.Create(ctx, &contract); err != nil {
		span.RecordError(err)
		return domain.Contract{}, err
	}

	return uc.contracts.GetByID(ctx, contract.ID)
}

func (uc *ContractUsecase) Get(ctx context.Context, id int64) (domain.Contract, error) {
	return uc.contracts.GetByID(ctx, id)
}

func (uc *ContractUsecase) List(ctx context.Context, f ContractFilters) ([]domain.Contract, int64, error) {
	return uc.contracts.List(ctx, f)
}

// ListMine lists contracts where the caller is a party. A user without the
// matching profile yet gets an empty page, not an error.
func (uc *ContractUsecase) ListMine(ctx context.Context, callerID int64, accountType domain.AccountType, page, limit int) ([]domain.Contract, int64, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.ListMine")
	defer span.End()

	f := ContractFilters{Page: page, Limit: limit}
	switch accountType {
	case domain.AccountFreelancer:
		freelancer, err := uc.freelancers.GetByUserID(ctx, callerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Contract{}, 0, nil
			}
			return nil, 0, err
		}
		f.FreelancerID = &freelancer.ID
	default:
		company, err := uc.companies.GetByUserID(ctx, callerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Contract{}, 0, nil
			}
			return nil, 0, err
		}
		f.CompanyID = &company.ID
	}

	return uc.contracts.List(ctx, f)
}

// Update mutates contract terms. Allowed only while the counterpart cannot
// have agreed to them yet (draft or pending).
func (uc *ContractUsecase) Update(ctx context.Context, id int64, patch ContractPatch) (domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.Update")
	defer span.End()

	contract, err := uc.contracts.GetByID(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}

	if !contract.Status.Mutable() {
		return domain.Contract{}, domain.InvalidTransitionError{From: contract.Status, Action: "update"}
	}

	if patch.Empty() {
		return contract, nil
	}

	return uc.contracts.UpdateFields(ctx, id, patch)
}

// SendForSignature moves a draft to pending signature.
func (uc *ContractUsecase) SendForSignature(ctx context.Context, id int64) (domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.SendForSignature")
	defer span.End()

	contract, err := uc.contracts.Transition(ctx, id, domain.ContractDraft, domain.ContractPending, nil)
	if err != nil {
		return domain.Contract{}, err
	}

	uc.notifyParties(ctx, contract, domain.NotificationContract,
		"Contract awaiting signature",
		fmt.Sprintf("The contract %q is ready to be signed", contract.Title))

	return contract, nil
}

// Sign records a party signature. The signer is resolved against the stored
// parties; an unrelated caller is rejected. When both roles have signed the
// status advances to signed atomically with the insert.
func (uc *ContractUsecase) Sign(ctx context.Context, id int64, callerID int64, payload, ip string) (domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.Sign")
	defer span.End()

	contract, err := uc.contracts.GetByID(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}

	role, err := uc.resolveSignerRole(ctx, contract, callerID)
	if err != nil {
		return domain.Contract{}, err
	}

	sig := domain.Signature{
		ContractID: id,
		SignerRole: role,
		Payload:    payload,
		SignedAt:   time.Now(),
		IPAddress:  ip,
	}

	signed, err := uc.contracts.Sign(ctx, id, sig)
	if err != nil {
		span.RecordError(err)
		return domain.Contract{}, err
	}

	if signed.BothPartiesSigned {
		uc.notifyParties(ctx, signed, domain.NotificationSignature,
			"Contract fully signed",
			fmt.Sprintf("Both parties have signed the contract %q", signed.Title))
	}

	return signed, nil
}

// Start moves a signed contract into progress, back-filling the start date
// when none was agreed.
func (uc *ContractUsecase) Start(ctx context.Context, id int64) (domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.Start")
	defer span.End()

	contract, err := uc.contracts.GetByID(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}

	set := map[string]any{}
	if contract.StartDate == nil {
		set["start_date"] = time.Now()
	}

	return uc.contracts.Transition(ctx, id, domain.ContractSigned, domain.ContractInProgress, set)
}

// Complete finishes a contract in progress and stamps the end date.
func (uc *ContractUsecase) Complete(ctx context.Context, id int64) (domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.Complete")
	defer span.End()

	contract, err := uc.contracts.Transition(ctx, id, domain.ContractInProgress, domain.ContractCompleted,
		map[string]any{"end_date": time.Now()})
	if err != nil {
		return domain.Contract{}, err
	}

	uc.notifyParties(ctx, contract, domain.NotificationContract,
		"Contract completed",
		fmt.Sprintf("The contract %q has been completed", contract.Title))

	return contract, nil
}

// Cancel aborts a contract from any non-terminal state, recording a
// structured reason code plus an optional note.
func (uc *ContractUsecase) Cancel(ctx context.Context, id int64, reason domain.CancelReason, note string) (domain.Contract, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.Cancel")
	defer span.End()

	contract, err := uc.contracts.GetByID(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}

	if contract.Status.Terminal() {
		return domain.Contract{}, domain.InvalidTransitionError{From: contract.Status, Action: "cancel"}
	}

	if reason == "" {
		reason = domain.CancelOther
	}

	return uc.contracts.Transition(ctx, id, contract.Status, domain.ContractCancelled, map[string]any{
		"cancel_reason": string(reason),
		"cancel_note":   note,
	})
}

// StatsFor aggregates contract counters scoped to the caller's profile, or
// globally when the profile does not exist.
func (uc *ContractUsecase) StatsFor(ctx context.Context, callerID int64, accountType domain.AccountType) (domain.ContractStats, error) {
	ctx, span := contractTracer.Start(ctx, "Contract.Stats")
	defer span.End()

	var f ContractStatsFilter
	switch accountType {
	case domain.AccountFreelancer:
		if freelancer, err := uc.freelancers.GetByUserID(ctx, callerID); err == nil {
			f.FreelancerID = &freelancer.ID
		}
	case domain.AccountCompany:
		if company, err := uc.companies.GetByUserID(ctx, callerID); err == nil {
			f.CompanyID = &company.ID
		}
	}

	return uc.contracts.Stats(ctx, f)
}

func (uc *ContractUsecase) resolveSignerRole(ctx context.Context, contract domain.Contract, callerID int64) (domain.SignerRole, error) {
	if contract.Status != domain.ContractPending {
		return "", domain.InvalidTransitionError{From: contract.Status, Action: "sign"}
	}

	if contract.FreelancerID != nil {
		freelancer, err := uc.freelancers.GetByID(ctx, *contract.FreelancerID)
		if err == nil && freelancer.UserID == callerID {
			return domain.SignerFreelancer, nil
		}
	}

	company, err := uc.companies.GetByID(ctx, contract.CompanyID)
	if err == nil && company.UserID == callerID {
		return domain.SignerCompany, nil
	}

	return "", domain.UnauthorizedError{Reason: "you are not a party to this contract"}
}

// notifyParties is best-effort: a failed notification never rolls back the
// transition that triggered it.
func (uc *ContractUsecase) notifyParties(ctx context.Context, contract domain.Contract, typ domain.NotificationType, title, message string) {
	if uc.notifications == nil {
		return
	}

	var userIDs []int64
	if company, err := uc.companies.GetByID(ctx, contract.CompanyID); err == nil {
		userIDs = append(userIDs, company.UserID)
	}
	if contract.FreelancerID != nil {
		if freelancer, err := uc.freelancers.GetByID(ctx, *contract.FreelancerID); err == nil {
			userIDs = append(userIDs, freelancer.UserID)
		}
	}

	for _, userID := range userIDs {
		err := uc.notifications.Notify(ctx, domain.Notification{
			UserID:     userID,
			Type:       typ,
			Title:      title,
			Message:    message,
			ContractID: &contract.ID,
		})
		if err != nil {
			slog.Warn("contract notification failed", "contractId", contract.ID, "userId", userID, "error", err)
		}
	}
}
