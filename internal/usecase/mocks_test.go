package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/batimatch/batimatch/internal/domain"
)

// In-memory fakes implementing the repository ports with the same observable
// semantics as the gorm implementations.

type memUserRepo struct {
	users       map[int64]*domain.User
	resetTokens map[int64]resetEntry
	nextID      int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:       map[int64]*domain.User{},
		resetTokens: map[int64]resetEntry{},
	}
}

func (m *memUserRepo) create(user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ConflictError{Code: domain.CodeEmailExists, Reason: "duplicate email"}
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) CreateWithFreelancer(ctx context.Context, user *domain.User, profile *domain.Freelancer) error {
	if err := m.create(user); err != nil {
		return err
	}
	profile.ID = user.ID
	profile.UserID = user.ID
	m.users[user.ID].Freelancer = profile
	return nil
}

func (m *memUserRepo) CreateWithCompany(ctx context.Context, user *domain.User, profile *domain.Company) error {
	if err := m.create(user); err != nil {
		return err
	}
	profile.ID = user.ID
	profile.UserID = user.ID
	m.users[user.ID].Company = profile
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return *u, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return domain.User{}, domain.NotFoundError{Resource: "user"}
}

type resetEntry struct {
	token   string
	expires time.Time
}

func (m *memUserRepo) SetResetToken(ctx context.Context, userID int64, token string, expires time.Time) error {
	if _, ok := m.users[userID]; !ok {
		return domain.NotFoundError{Resource: "user"}
	}
	m.resetTokens[userID] = resetEntry{token: token, expires: expires}
	return nil
}

func (m *memUserRepo) ConsumeResetToken(ctx context.Context, token string, newHash string) (int64, error) {
	for userID, e := range m.resetTokens {
		if e.token == token && e.expires.After(time.Now()) {
			delete(m.resetTokens, userID)
			m.users[userID].PasswordHash = newHash
			return userID, nil
		}
	}
	return 0, domain.NotFoundError{Resource: "reset token"}
}

type memSessionRepo struct {
	sessions map[int64]*domain.Session
	nextID   int64
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[int64]*domain.Session{}}
}

func (m *memSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	m.nextID++
	session.ID = m.nextID
	clone := *session
	m.sessions[session.ID] = &clone
	return nil
}

func (m *memSessionRepo) GetByToken(ctx context.Context, userID int64, refreshToken string) (domain.Session, error) {
	for _, s := range m.sessions {
		if s.UserID == userID && s.RefreshToken == refreshToken && s.ExpiresAt.After(time.Now()) {
			return *s, nil
		}
	}
	return domain.Session{}, domain.NotFoundError{Resource: "session"}
}

func (m *memSessionRepo) Rotate(ctx context.Context, sessionID int64, refreshToken string, expires time.Time) error {
	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.NotFoundError{Resource: "session"}
	}
	s.RefreshToken = refreshToken
	s.ExpiresAt = expires
	return nil
}

func (m *memSessionRepo) Delete(ctx context.Context, userID int64, refreshToken string) error {
	for id, s := range m.sessions {
		if s.UserID == userID && s.RefreshToken == refreshToken {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memSessionRepo) DeleteAll(ctx context.Context, userID int64) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memSessionRepo) count(userID int64) int {
	n := 0
	for _, s := range m.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

type memFreelancerRepo struct {
	freelancers map[int64]*domain.Freelancer
	nextID      int64
}

func newMemFreelancerRepo() *memFreelancerRepo {
	return &memFreelancerRepo{freelancers: map[int64]*domain.Freelancer{}}
}

func (m *memFreelancerRepo) add(f domain.Freelancer) domain.Freelancer {
	m.nextID++
	f.ID = m.nextID
	m.freelancers[f.ID] = &f
	return f
}

func (m *memFreelancerRepo) GetByID(ctx context.Context, id int64) (domain.Freelancer, error) {
	f, ok := m.freelancers[id]
	if !ok {
		return domain.Freelancer{}, domain.NotFoundError{Resource: "freelancer"}
	}
	return *f, nil
}

func (m *memFreelancerRepo) GetByUserID(ctx context.Context, userID int64) (domain.Freelancer, error) {
	for _, f := range m.freelancers {
		if f.UserID == userID {
			return *f, nil
		}
	}
	return domain.Freelancer{}, domain.NotFoundError{Resource: "freelancer"}
}

func (m *memFreelancerRepo) List(ctx context.Context, f FreelancerFilters) ([]domain.Freelancer, int64, error) {
	var out []domain.Freelancer
	for _, fl := range m.freelancers {
		if f.Trade != "" && !strings.Contains(strings.ToLower(fl.Trade), strings.ToLower(f.Trade)) {
			continue
		}
		if f.City != "" && !strings.Contains(strings.ToLower(fl.City), strings.ToLower(f.City)) {
			continue
		}
		if f.Available != nil && fl.Available != *f.Available {
			continue
		}
		out = append(out, *fl)
	}
	return out, int64(len(out)), nil
}

func (m *memFreelancerRepo) Update(ctx context.Context, userID int64, patch FreelancerPatch) (domain.Freelancer, error) {
	for _, f := range m.freelancers {
		if f.UserID == userID {
			if patch.Trade != nil {
				f.Trade = *patch.Trade
			}
			if patch.City != nil {
				f.City = *patch.City
			}
			if patch.Available != nil {
				f.Available = *patch.Available
			}
			return *f, nil
		}
	}
	return domain.Freelancer{}, domain.NotFoundError{Resource: "freelancer"}
}

type memCompanyRepo struct {
	companies map[int64]*domain.Company
	nextID    int64
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: map[int64]*domain.Company{}}
}

func (m *memCompanyRepo) add(c domain.Company) domain.Company {
	m.nextID++
	c.ID = m.nextID
	m.companies[c.ID] = &c
	return c
}

func (m *memCompanyRepo) GetByID(ctx context.Context, id int64) (domain.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return domain.Company{}, domain.NotFoundError{Resource: "company"}
	}
	return *c, nil
}

func (m *memCompanyRepo) GetByUserID(ctx context.Context, userID int64) (domain.Company, error) {
	for _, c := range m.companies {
		if c.UserID == userID {
			return *c, nil
		}
	}
	return domain.Company{}, domain.NotFoundError{Resource: "company"}
}

func (m *memCompanyRepo) GetBySiret(ctx context.Context, siret string) (domain.Company, error) {
	for _, c := range m.companies {
		if c.Siret == siret {
			return *c, nil
		}
	}
	return domain.Company{}, domain.NotFoundError{Resource: "company"}
}

func (m *memCompanyRepo) List(ctx context.Context, f CompanyFilters) ([]domain.Company, int64, error) {
	var out []domain.Company
	for _, c := range m.companies {
		if f.City != "" && !strings.Contains(strings.ToLower(c.City), strings.ToLower(f.City)) {
			continue
		}
		if f.LegalForm != "" && c.LegalForm != f.LegalForm {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *memCompanyRepo) Update(ctx context.Context, userID int64, patch CompanyPatch) (domain.Company, error) {
	for _, c := range m.companies {
		if c.UserID == userID {
			if patch.LegalName != nil {
				c.LegalName = *patch.LegalName
			}
			if patch.City != nil {
				c.City = *patch.City
			}
			return *c, nil
		}
	}
	return domain.Company{}, domain.NotFoundError{Resource: "company"}
}

type memContractRepo struct {
	contracts  map[int64]*domain.Contract
	signatures map[int64][]domain.Signature
	nextID     int64
	nextSigID  int64
}

func newMemContractRepo() *memContractRepo {
	return &memContractRepo{
		contracts:  map[int64]*domain.Contract{},
		signatures: map[int64][]domain.Signature{},
	}
}

func (m *memContractRepo) Create(ctx context.Context, c *domain.Contract) error {
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	clone := *c
	m.contracts[c.ID] = &clone
	return nil
}

func (m *memContractRepo) GetByID(ctx context.Context, id int64) (domain.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return domain.Contract{}, domain.NotFoundError{Resource: "contract"}
	}
	out := *c
	out.Signatures = append([]domain.Signature{}, m.signatures[id]...)
	return out, nil
}

func (m *memContractRepo) UpdateFields(ctx context.Context, id int64, patch ContractPatch) (domain.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return domain.Contract{}, domain.NotFoundError{Resource: "contract"}
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Amount != nil {
		c.Amount = *patch.Amount
	}
	if patch.StartDate != nil {
		c.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		c.EndDate = patch.EndDate
	}
	if patch.ProgressStage != nil {
		c.ProgressStage = *patch.ProgressStage
	}
	return m.GetByID(ctx, id)
}

func (m *memContractRepo) Transition(ctx context.Context, id int64, from, to domain.ContractStatus, set map[string]any) (domain.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return domain.Contract{}, domain.NotFoundError{Resource: "contract"}
	}
	if c.Status != from {
		return domain.Contract{}, domain.InvalidTransitionError{From: c.Status}
	}
	c.Status = to
	for k, v := range set {
		switch k {
		case "start_date":
			t := v.(time.Time)
			c.StartDate = &t
		case "end_date":
			t := v.(time.Time)
			c.EndDate = &t
		case "cancel_reason":
			c.CancelReason = domain.CancelReason(v.(string))
		case "cancel_note":
			c.CancelNote = v.(string)
		}
	}
	return m.GetByID(ctx, id)
}

func (m *memContractRepo) Sign(ctx context.Context, contractID int64, sig domain.Signature) (domain.Contract, error) {
	c, ok := m.contracts[contractID]
	if !ok {
		return domain.Contract{}, domain.NotFoundError{Resource: "contract"}
	}
	if c.Status != domain.ContractPending {
		return domain.Contract{}, domain.InvalidTransitionError{From: c.Status, Action: "sign"}
	}
	for _, existing := range m.signatures[contractID] {
		if existing.SignerRole == sig.SignerRole {
			return domain.Contract{}, domain.ErrDuplicateSignature
		}
	}
	m.nextSigID++
	sig.ID = m.nextSigID
	m.signatures[contractID] = append(m.signatures[contractID], sig)

	if len(m.signatures[contractID]) == 2 {
		c.Status = domain.ContractSigned
		c.BothPartiesSigned = true
		now := time.Now()
		c.SignatureCompletedAt = &now
	}
	return m.GetByID(ctx, contractID)
}

func (m *memContractRepo) List(ctx context.Context, f ContractFilters) ([]domain.Contract, int64, error) {
	var out []domain.Contract
	for id, c := range m.contracts {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.CompanyID != nil && c.CompanyID != *f.CompanyID {
			continue
		}
		if f.FreelancerID != nil && (c.FreelancerID == nil || *c.FreelancerID != *f.FreelancerID) {
			continue
		}
		full, _ := m.GetByID(ctx, id)
		out = append(out, full)
	}
	return out, int64(len(out)), nil
}

func (m *memContractRepo) Stats(ctx context.Context, f ContractStatsFilter) (domain.ContractStats, error) {
	var stats domain.ContractStats
	for _, c := range m.contracts {
		if f.CompanyID != nil && c.CompanyID != *f.CompanyID {
			continue
		}
		if f.FreelancerID != nil && (c.FreelancerID == nil || *c.FreelancerID != *f.FreelancerID) {
			continue
		}
		stats.Total++
		switch c.Status {
		case domain.ContractDraft:
			stats.Draft++
		case domain.ContractPending:
			stats.Pending++
		case domain.ContractInProgress:
			stats.InProgress++
			stats.TotalAmount += c.Amount
		case domain.ContractCompleted:
			stats.Completed++
			stats.TotalAmount += c.Amount
		}
	}
	return stats, nil
}

type memTenderRepo struct {
	tenders  map[int64]*domain.Tender
	nextID   int64
	apps     *memApplicationRepo
	lastList TenderFilters
}

func newMemTenderRepo(apps *memApplicationRepo) *memTenderRepo {
	return &memTenderRepo{tenders: map[int64]*domain.Tender{}, apps: apps}
}

func (m *memTenderRepo) owns(owner *domain.TenderOwner, t *domain.Tender) bool {
	if owner == nil {
		return true
	}
	if t.PublisherID != nil && *t.PublisherID == owner.PublisherID {
		return true
	}
	if owner.Kind == domain.OwnerLegacyCompany && t.PublisherID == nil &&
		t.CompanyID != nil && *t.CompanyID == owner.CompanyID {
		return true
	}
	return false
}

func (m *memTenderRepo) Create(ctx context.Context, t *domain.Tender) error {
	m.nextID++
	t.ID = m.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	clone := *t
	m.tenders[t.ID] = &clone
	return nil
}

func (m *memTenderRepo) AdoptLegacy(ctx context.Context, companyID, publisherID int64) error {
	for _, t := range m.tenders {
		if t.PublisherID == nil && t.CompanyID != nil && *t.CompanyID == companyID {
			id := publisherID
			t.PublisherID = &id
		}
	}
	return nil
}

func (m *memTenderRepo) GetByID(ctx context.Context, id int64) (domain.Tender, error) {
	t, ok := m.tenders[id]
	if !ok {
		return domain.Tender{}, domain.NotFoundError{Resource: "tender"}
	}
	out := *t
	if m.apps != nil {
		out.ApplicationCount = m.apps.countByTender(id)
	}
	return out, nil
}

func (m *memTenderRepo) List(ctx context.Context, f TenderFilters) ([]domain.Tender, int64, error) {
	m.lastList = f
	var out []domain.Tender
	for id, t := range m.tenders {
		if !m.owns(f.Owner, t) {
			continue
		}
		if f.City != "" && !strings.Contains(strings.ToLower(t.City), strings.ToLower(f.City)) {
			continue
		}
		if f.ConstructionType != "" && !strings.Contains(strings.ToLower(t.ConstructionType), strings.ToLower(f.ConstructionType)) {
			continue
		}
		if f.BudgetMin != nil && (t.BudgetMin == nil || *t.BudgetMin < *f.BudgetMin) {
			continue
		}
		if f.BudgetMax != nil && (t.BudgetMin == nil || *t.BudgetMin > *f.BudgetMax) {
			continue
		}
		if len(f.Keywords) > 0 {
			matched := false
			for _, kw := range f.Keywords {
				lkw := strings.ToLower(kw)
				if strings.Contains(strings.ToLower(t.Title), lkw) || strings.Contains(strings.ToLower(t.Description), lkw) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		full, _ := m.GetByID(ctx, id)
		out = append(out, full)
	}
	return out, int64(len(out)), nil
}

func (m *memTenderRepo) ListSince(ctx context.Context, owner *domain.TenderOwner, since time.Time) ([]domain.Tender, error) {
	var out []domain.Tender
	for id, t := range m.tenders {
		if !m.owns(owner, t) || t.CreatedAt.Before(since) {
			continue
		}
		full, _ := m.GetByID(ctx, id)
		out = append(out, full)
	}
	return out, nil
}

func (m *memTenderRepo) CountActive(ctx context.Context, owner *domain.TenderOwner) (int64, error) {
	var n int64
	for _, t := range m.tenders {
		if m.owns(owner, t) && t.Status == domain.TenderPublished {
			n++
		}
	}
	return n, nil
}

func (m *memTenderRepo) CountAll(ctx context.Context, owner *domain.TenderOwner) (int64, error) {
	var n int64
	for _, t := range m.tenders {
		if m.owns(owner, t) {
			n++
		}
	}
	return n, nil
}

func (m *memTenderRepo) CountApplications(ctx context.Context, owner *domain.TenderOwner) (int64, error) {
	var n int64
	for id, t := range m.tenders {
		if m.owns(owner, t) && m.apps != nil {
			n += m.apps.countByTender(id)
		}
	}
	return n, nil
}

type memApplicationRepo struct {
	applications map[int64]*domain.Application
	nextID       int64
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{applications: map[int64]*domain.Application{}}
}

func (m *memApplicationRepo) countByTender(tenderID int64) int64 {
	var n int64
	for _, a := range m.applications {
		if a.TenderID == tenderID {
			n++
		}
	}
	return n
}

func (m *memApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	for _, existing := range m.applications {
		if existing.TenderID != a.TenderID {
			continue
		}
		if a.FreelancerID != nil && existing.FreelancerID != nil && *existing.FreelancerID == *a.FreelancerID {
			return domain.ConflictError{Code: domain.CodeConflict, Reason: "already applied to this tender"}
		}
		if a.CompanyID != nil && existing.CompanyID != nil && *existing.CompanyID == *a.CompanyID {
			return domain.ConflictError{Code: domain.CodeConflict, Reason: "already applied to this tender"}
		}
	}
	m.nextID++
	a.ID = m.nextID
	a.AppliedAt = time.Now()
	clone := *a
	m.applications[a.ID] = &clone
	return nil
}

func (m *memApplicationRepo) GetByID(ctx context.Context, id int64) (domain.Application, error) {
	a, ok := m.applications[id]
	if !ok {
		return domain.Application{}, domain.NotFoundError{Resource: "application"}
	}
	return *a, nil
}

func (m *memApplicationRepo) ListByTender(ctx context.Context, tenderID int64) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range m.applications {
		if a.TenderID == tenderID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memApplicationRepo) SetStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	a, ok := m.applications[id]
	if !ok {
		return domain.NotFoundError{Resource: "application"}
	}
	a.Status = status
	return nil
}

type memNotificationRepo struct {
	notifications []domain.Notification
	nextID        int64
	failCreate    bool
}

func (m *memNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if m.failCreate {
		return domain.ConflictError{Reason: "storage down"}
	}
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memNotificationRepo) CreateMany(ctx context.Context, ns []domain.Notification) (int64, error) {
	for i := range ns {
		if err := m.Create(ctx, &ns[i]); err != nil {
			return int64(i), err
		}
	}
	return int64(len(ns)), nil
}

func (m *memNotificationRepo) ListByUser(ctx context.Context, userID int64, page, limit int) ([]domain.Notification, int64, int64, error) {
	var out []domain.Notification
	var unread int64
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		out = append(out, n)
		if !n.Read {
			unread++
		}
	}
	return out, int64(len(out)), unread, nil
}

func (m *memNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].UserID == userID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return domain.NotFoundError{Resource: "notification"}
}

func (m *memNotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	var n int64
	for i := range m.notifications {
		if m.notifications[i].UserID == userID && !m.notifications[i].Read {
			m.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memNotificationRepo) Delete(ctx context.Context, id, userID int64) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].UserID == userID {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "notification"}
}

type memPaymentRepo struct {
	payments map[int64]*domain.Payment
	nextID   int64
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: map[int64]*domain.Payment{}}
}

func (m *memPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	clone := *p
	m.payments[p.ID] = &clone
	return nil
}

func (m *memPaymentRepo) GetByID(ctx context.Context, id int64) (domain.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return domain.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	return *p, nil
}

func (m *memPaymentRepo) Validate(ctx context.Context, id int64, paidAt time.Time) (domain.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return domain.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	p.Status = domain.PaymentValidated
	p.PaidAt = &paidAt
	return *p, nil
}

func (m *memPaymentRepo) ListByBeneficiary(ctx context.Context, beneficiaryID int64, beneficiaryType domain.AccountType) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		if p.BeneficiaryID == beneficiaryID && p.BeneficiaryType == beneficiaryType {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) ListByPayer(ctx context.Context, payerID int64, payerType domain.AccountType) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		if p.PayerID == payerID && p.PayerType == payerType {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memAdminRepo struct {
	users    *memUserRepo
	activity []domain.ActivityItem
	stats    domain.PlatformStats
	mapData  domain.MapData

	lastSearch string
	deleted    []int64
}

func newMemAdminRepo(users *memUserRepo) *memAdminRepo {
	return &memAdminRepo{users: users}
}

func (m *memAdminRepo) overview(u domain.User) domain.UserOverview {
	overview := domain.UserOverview{
		ID:          u.ID,
		Email:       u.Email,
		LastName:    u.LastName,
		FirstName:   u.FirstName,
		AccountType: u.AccountType,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
	if u.Company != nil {
		overview.CompanyName = u.Company.LegalName
	}
	if u.Freelancer != nil {
		overview.Trade = u.Freelancer.Trade
	}
	return overview
}

func (m *memAdminRepo) ListUsers(ctx context.Context, page, limit int) ([]domain.UserOverview, int64, error) {
	out := []domain.UserOverview{}
	for _, u := range m.users.users {
		out = append(out, m.overview(*u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	start := (page - 1) * limit
	if start >= len(out) {
		return []domain.UserOverview{}, total, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *memAdminRepo) SearchUsers(ctx context.Context, query string, limit int) ([]domain.UserOverview, error) {
	m.lastSearch = query
	needle := strings.ToLower(query)
	out := []domain.UserOverview{}
	for _, u := range m.users.users {
		haystack := strings.ToLower(u.Email + " " + u.LastName + " " + u.FirstName)
		if u.Company != nil {
			haystack += " " + strings.ToLower(u.Company.LegalName)
		}
		if strings.Contains(haystack, needle) {
			out = append(out, m.overview(*u))
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memAdminRepo) UpdateUser(ctx context.Context, id int64, patch AdminUserPatch) (domain.User, error) {
	u, ok := m.users.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.CompanyName != nil && u.Company != nil {
		u.Company.LegalName = *patch.CompanyName
	}
	return *u, nil
}

func (m *memAdminRepo) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := m.users.users[id]; !ok {
		return domain.NotFoundError{Resource: "user"}
	}
	delete(m.users.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memAdminRepo) UserActivity(ctx context.Context, userID int64, limit int) ([]domain.ActivityItem, error) {
	return m.activity, nil
}

func (m *memAdminRepo) Stats(ctx context.Context) (domain.PlatformStats, error) {
	return m.stats, nil
}

func (m *memAdminRepo) MapData(ctx context.Context, limit int) (domain.MapData, error) {
	return m.mapData, nil
}

// fakeIssuer mints predictable tokens without real signing.
type fakeIssuer struct {
	counter int
	claims  map[string]domain.TokenClaims
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{claims: map[string]domain.TokenClaims{}}
}

func (f *fakeIssuer) IssuePair(userID int64, email string, accountType domain.AccountType) (domain.TokenPair, error) {
	f.counter++
	pair := domain.TokenPair{
		AccessToken:  "access-" + email + "-" + strconv.Itoa(f.counter),
		RefreshToken: "refresh-" + email + "-" + strconv.Itoa(f.counter),
	}
	f.claims[pair.RefreshToken] = domain.TokenClaims{UserID: userID, Email: email, AccountType: accountType}
	return pair, nil
}

func (f *fakeIssuer) VerifyRefresh(token string) (domain.TokenClaims, error) {
	claims, ok := f.claims[token]
	if !ok {
		return domain.TokenClaims{}, domain.UnauthorizedError{Reason: "invalid or expired token"}
	}
	return claims, nil
}
