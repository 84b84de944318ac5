package usecase

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/batimatch/batimatch/internal/domain"
)

func newPaymentFixture(t *testing.T) (*PaymentUsecase, *memPaymentRepo, domain.Contract) {
	t.Helper()
	payments := newMemPaymentRepo()
	contracts := newMemContractRepo()
	contract := domain.Contract{Title: "Rénovation toiture", Amount: 12000, Status: domain.ContractInProgress, CompanyID: 1}
	if err := contracts.Create(context.Background(), &contract); err != nil {
		t.Fatal(err)
	}
	return NewPaymentUsecase(payments, contracts), payments, contract
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestPaymentCreateSplitsVAT(t *testing.T) {
	uc, _, contract := newPaymentFixture(t)

	payment, err := uc.Create(context.Background(), PaymentCreateInput{
		ContractID:      contract.ID,
		Amount:          1200,
		PayerID:         1,
		PayerType:       domain.AccountCompany,
		BeneficiaryID:   2,
		BeneficiaryType: domain.AccountFreelancer,
		Method:          domain.PaymentTransfer,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(payment.AmountExclVAT, 1000) {
		t.Errorf("excl-VAT amount: %f", payment.AmountExclVAT)
	}
	if !almostEqual(payment.AmountVAT, 200) {
		t.Errorf("VAT amount: %f", payment.AmountVAT)
	}
	if payment.Status != domain.PaymentPending {
		t.Errorf("expected pending, got %s", payment.Status)
	}
	if !strings.HasPrefix(payment.Reference, "PAY-") {
		t.Errorf("reference format: %s", payment.Reference)
	}
}

func TestPaymentCreateUnknownContract(t *testing.T) {
	uc, _, _ := newPaymentFixture(t)

	_, err := uc.Create(context.Background(), PaymentCreateInput{ContractID: 404, Amount: 100})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPaymentValidate(t *testing.T) {
	uc, _, contract := newPaymentFixture(t)
	ctx := context.Background()

	payment, err := uc.Create(ctx, PaymentCreateInput{ContractID: contract.ID, Amount: 600})
	if err != nil {
		t.Fatal(err)
	}

	validated, err := uc.Validate(ctx, payment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if validated.Status != domain.PaymentValidated || validated.PaidAt == nil {
		t.Errorf("validation markers missing: %+v", validated)
	}
}

func TestFreelancerSummary(t *testing.T) {
	uc, _, contract := newPaymentFixture(t)
	ctx := context.Background()

	mk := func(amount float64, method domain.PaymentMethod, validate bool) {
		t.Helper()
		p, err := uc.Create(ctx, PaymentCreateInput{
			ContractID:      contract.ID,
			Amount:          amount,
			PayerID:         1,
			PayerType:       domain.AccountCompany,
			BeneficiaryID:   2,
			BeneficiaryType: domain.AccountFreelancer,
			Method:          method,
		})
		if err != nil {
			t.Fatal(err)
		}
		if validate {
			if _, err := uc.Validate(ctx, p.ID); err != nil {
				t.Fatal(err)
			}
		}
	}

	mk(1000, domain.PaymentTransfer, true)
	mk(500, domain.PaymentCash, true)
	mk(9999, domain.PaymentCard, false) // still pending, must be ignored

	summary, err := uc.FreelancerSummary(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(summary.Total, 1500) {
		t.Errorf("total: %f", summary.Total)
	}
	if !almostEqual(summary.Platform, 1000) || !almostEqual(summary.Cash, 500) {
		t.Errorf("platform/cash split: %f / %f", summary.Platform, summary.Cash)
	}
	// wallet receives the platform amount net of the 5% commission
	if !almostEqual(summary.Wallet, 950) {
		t.Errorf("wallet: %f", summary.Wallet)
	}
	// cash commission is owed back
	if !almostEqual(summary.PendingCommissions, 25) {
		t.Errorf("pending commissions: %f", summary.PendingCommissions)
	}
	if len(summary.History) != 2 {
		t.Errorf("pending payments leaked into the history: %d entries", len(summary.History))
	}
}

func TestCompanySummary(t *testing.T) {
	uc, _, contract := newPaymentFixture(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, PaymentCreateInput{
		ContractID: contract.ID, Amount: 2400,
		PayerID: 1, PayerType: domain.AccountCompany,
		BeneficiaryID: 2, BeneficiaryType: domain.AccountFreelancer,
		Method: domain.PaymentTransfer,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Validate(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Create(ctx, PaymentCreateInput{
		ContractID: contract.ID, Amount: 600,
		PayerID: 1, PayerType: domain.AccountCompany,
		BeneficiaryID: 2, BeneficiaryType: domain.AccountFreelancer,
		Method: domain.PaymentCard,
	}); err != nil {
		t.Fatal(err)
	}

	summary, err := uc.CompanySummary(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(summary.Total, 3000) || !almostEqual(summary.Paid, 2400) || !almostEqual(summary.Pending, 600) {
		t.Errorf("unexpected summary: %+v", summary)
	}
	// company history includes pending entries
	if len(summary.History) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(summary.History))
	}
}
