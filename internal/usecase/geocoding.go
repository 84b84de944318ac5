package usecase

import (
	"context"
	"strings"

	"github.com/batimatch/batimatch/internal/domain"
)

type GeocodingUsecase struct {
	gateway GeocodingGateway
}

func NewGeocodingUsecase(gateway GeocodingGateway) *GeocodingUsecase {
	return &GeocodingUsecase{gateway: gateway}
}

// Search resolves a postal address to coordinates. Empty input is a
// validation error; an unresolvable address surfaces as not found.
func (uc *GeocodingUsecase) Search(ctx context.Context, address, postalCode, city string) (*domain.GeocodingResult, error) {
	parts := make([]string, 0, 3)
	for _, p := range []string{address, postalCode, city} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return nil, domain.ValidationError{Field: "address", Reason: "no address provided"}
	}

	return uc.gateway.Search(ctx, strings.Join(parts, " "))
}
