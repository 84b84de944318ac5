package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"github.com/batimatch/batimatch/internal/domain"
)

func TestGeocodingSearch(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if got := r.URL.Query().Get("q"); got != "12 rue de la République Lyon" {
			t.Errorf("unexpected query: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"features": [{
				"geometry": {"coordinates": [4.8357, 45.7640]},
				"properties": {
					"label": "12 Rue de la République 69002 Lyon",
					"city": "Lyon",
					"postcode": "69002",
					"context": "69, Rhône, Auvergne-Rhône-Alpes",
					"score": 0.97
				}
			}]
		}`))
	}))
	defer server.Close()

	g := NewGeocodingGateway(server.URL)
	result, err := g.Search(context.Background(), "12 rue de la République Lyon")
	if err != nil {
		t.Fatal(err)
	}
	if result.Latitude != 45.7640 || result.Longitude != 4.8357 {
		t.Errorf("coordinates: %f, %f", result.Latitude, result.Longitude)
	}
	if result.City != "Lyon" || result.PostalCode != "69002" {
		t.Errorf("address fields: %+v", result)
	}

	// second lookup must come from the cache
	if _, err := g.Search(context.Background(), "12 rue de la République Lyon"); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("expected 1 upstream hit, got %d", hits)
	}
}

func TestGeocodingSearchNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features": []}`))
	}))
	defer server.Close()

	g := NewGeocodingGateway(server.URL)
	_, err := g.Search(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGeocodingSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := NewGeocodingGateway(server.URL)
	if _, err := g.Search(context.Background(), "12 rue x"); err == nil {
		t.Fatal("expected an error on upstream failure")
	}
}
