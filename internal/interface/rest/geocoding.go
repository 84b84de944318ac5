package rest

import (
	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
)

func (h *Handler) handleGeocodingSearch(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.GeocodingSearch")
	defer span.End()

	result, err := h.geocoding.Search(
		ctx,
		c.QueryParam("adresse"),
		c.QueryParam("codePostal"),
		c.QueryParam("ville"),
	)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, result)
}
