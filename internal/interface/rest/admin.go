package rest

import (
	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
	"github.com/batimatch/batimatch/internal/usecase"
)

func (h *Handler) handleAdminListUsers(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminListUsers")
	defer span.End()

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)

	users, total, err := h.admin.ListUsers(ctx, page, limit)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMeta(c, users, pageMeta{Total: total, Page: page, TotalPages: totalPages(total, limit)})
}

func (h *Handler) handleAdminSearchUsers(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminSearchUsers")
	defer span.End()

	users, err := h.admin.SearchUsers(ctx, c.QueryParam("q"))
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, users)
}

func (h *Handler) handleAdminGetUser(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminGetUser")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	user, err := h.admin.GetUser(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, user)
}

type adminUserUpdateRequest struct {
	LastName    *string `json:"nom"`
	FirstName   *string `json:"prenom"`
	Email       *string `json:"email"`
	IsActive    *bool   `json:"actif"`
	CompanyName *string `json:"nomEntreprise"`
}

func (h *Handler) handleAdminUpdateUser(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminUpdateUser")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	var req adminUserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, "invalid request body")
	}

	user, err := h.admin.UpdateUser(ctx, id, usecase.AdminUserPatch{
		LastName:    req.LastName,
		FirstName:   req.FirstName,
		Email:       req.Email,
		IsActive:    req.IsActive,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, user)
}

func (h *Handler) handleAdminDeleteUser(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminDeleteUser")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	if err := h.admin.DeleteUser(ctx, id); err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMessage(c, "utilisateur supprimé")
}

func (h *Handler) handleAdminUserActivity(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminUserActivity")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}

	items, err := h.admin.UserActivity(ctx, id)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, items)
}

func (h *Handler) handleAdminStats(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminStats")
	defer span.End()

	stats, err := h.admin.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, stats)
}

func (h *Handler) handleAdminMapData(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.AdminMapData")
	defer span.End()

	data, err := h.admin.MapData(ctx)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, data)
}
