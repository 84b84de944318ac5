package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/batimatch/batimatch/internal/domain"
)

// AdminUsecase backs the back-office: account listing and moderation,
// per-user activity feeds and platform-wide figures.
type AdminUsecase struct {
	repo  AdminRepository
	users UserRepository
}

func NewAdminUsecase(repo AdminRepository, users UserRepository) *AdminUsecase {
	return &AdminUsecase{repo: repo, users: users}
}

func (uc *AdminUsecase) ListUsers(ctx context.Context, page, limit int) ([]domain.UserOverview, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	return uc.repo.ListUsers(ctx, page, limit)
}

// SearchUsers matches the query against emails, names and company legal
// names. Queries shorter than two characters return nothing rather than
// scanning the whole table.
func (uc *AdminUsecase) SearchUsers(ctx context.Context, query string) ([]domain.UserOverview, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []domain.UserOverview{}, nil
	}
	return uc.repo.SearchUsers(ctx, query, 20)
}

func (uc *AdminUsecase) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *AdminUsecase) UpdateUser(ctx context.Context, id int64, patch AdminUserPatch) (domain.User, error) {
	if patch.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*patch.Email))
		if email == "" || !strings.Contains(email, "@") {
			return domain.User{}, domain.ValidationError{Field: "email", Reason: "a valid email is required"}
		}
		patch.Email = &email
	}
	return uc.repo.UpdateUser(ctx, id, patch)
}

func (uc *AdminUsecase) DeleteUser(ctx context.Context, id int64) error {
	return uc.repo.DeleteUser(ctx, id)
}

// UserActivity merges the user's contracts and applications into one feed,
// most recent first.
func (uc *AdminUsecase) UserActivity(ctx context.Context, userID int64) ([]domain.ActivityItem, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	items, err := uc.repo.UserActivity(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

func (uc *AdminUsecase) Stats(ctx context.Context) (domain.PlatformStats, error) {
	return uc.repo.Stats(ctx)
}

func (uc *AdminUsecase) MapData(ctx context.Context) (domain.MapData, error) {
	return uc.repo.MapData(ctx, 100)
}
