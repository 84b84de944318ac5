package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/usecase"
)

var tracer = otel.Tracer("infra/gateway")

const defaultGeocodingBaseURL = "https://api-adresse.data.gouv.fr"

// GeocodingGateway resolves French postal addresses through the BAN public
// API. Responses are cached in-process since addresses barely change.
type GeocodingGateway struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

func NewGeocodingGateway(baseURL string) *GeocodingGateway {
	if baseURL == "" {
		baseURL = defaultGeocodingBaseURL
	}
	return &GeocodingGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(24*time.Hour, time.Hour),
	}
}

type banResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
		Properties struct {
			Label    string  `json:"label"`
			City     string  `json:"city"`
			Postcode string  `json:"postcode"`
			Context  string  `json:"context"`
			Score    float64 `json:"score"`
		} `json:"properties"`
	} `json:"features"`
}

func (g *GeocodingGateway) Search(ctx context.Context, query string) (*domain.GeocodingResult, error) {
	ctx, span := tracer.Start(ctx, "Geocoding.Search")
	defer span.End()

	if cached, found := g.cache.Get(query); found {
		result := cached.(domain.GeocodingResult)
		return &result, nil
	}

	endpoint := fmt.Sprintf("%s/search/?q=%s&limit=1", g.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "querying geocoding provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}

	var payload banResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding geocoding response")
	}

	if len(payload.Features) == 0 {
		return nil, domain.NotFoundError{Resource: "address"}
	}

	feature := payload.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return nil, domain.NotFoundError{Resource: "address"}
	}

	result := domain.GeocodingResult{
		Longitude:        feature.Geometry.Coordinates[0],
		Latitude:         feature.Geometry.Coordinates[1],
		FormattedAddress: feature.Properties.Label,
		City:             feature.Properties.City,
		PostalCode:       feature.Properties.Postcode,
		Context:          feature.Properties.Context,
		Score:            feature.Properties.Score,
	}
	g.cache.Set(query, result, cache.DefaultExpiration)
	return &result, nil
}

var _ usecase.GeocodingGateway = (*GeocodingGateway)(nil)
