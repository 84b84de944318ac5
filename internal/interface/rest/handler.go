package rest

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/batimatch/batimatch/internal/config"
	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/usecase"
)

var tracer = otel.Tracer("interface/rest")

type Handler struct {
	config        config.Config
	auth          *usecase.AuthUsecase
	freelancers   *usecase.FreelancerUsecase
	companies     *usecase.CompanyUsecase
	tenders       *usecase.TenderUsecase
	contracts     *usecase.ContractUsecase
	notifications *usecase.NotificationUsecase
	payments      *usecase.PaymentUsecase
	geocoding     *usecase.GeocodingUsecase
	admin         *usecase.AdminUsecase
	mw            *middleware.AuthMiddleware
}

func NewHandler(
	cfg config.Config,
	auth *usecase.AuthUsecase,
	freelancers *usecase.FreelancerUsecase,
	companies *usecase.CompanyUsecase,
	tenders *usecase.TenderUsecase,
	contracts *usecase.ContractUsecase,
	notifications *usecase.NotificationUsecase,
	payments *usecase.PaymentUsecase,
	geocoding *usecase.GeocodingUsecase,
	admin *usecase.AdminUsecase,
	mw *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		config:        cfg,
		auth:          auth,
		freelancers:   freelancers,
		companies:     companies,
		tenders:       tenders,
		contracts:     contracts,
		notifications: notifications,
		payments:      payments,
		geocoding:     geocoding,
		admin:         admin,
		mw:            mw,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register/freelancer", h.handleRegisterFreelancer)
	auth.POST("/register/company", h.handleRegisterCompany)
	auth.POST("/login", h.handleLogin)
	auth.POST("/refresh", h.handleRefresh)
	auth.POST("/forgot-password", h.handleForgotPassword)
	auth.POST("/reset-password", h.handleResetPassword)
	auth.POST("/logout", h.handleLogout, h.mw.RequireAuth)
	auth.GET("/me", h.handleMe, h.mw.RequireAuth)

	api.GET("/freelancers", h.handleListFreelancers)
	api.GET("/freelancers/:id", h.handleGetFreelancer)
	api.GET("/freelancers/me", h.handleMyFreelancerProfile, h.mw.RequireAuth, h.mw.RequireType(domain.AccountFreelancer))
	api.PUT("/freelancers/me", h.handleUpdateFreelancer, h.mw.RequireAuth, h.mw.RequireType(domain.AccountFreelancer))

	api.GET("/companies", h.handleListCompanies)
	api.GET("/companies/:id", h.handleGetCompany)
	api.GET("/companies/me", h.handleMyCompanyProfile, h.mw.RequireAuth, h.mw.RequireType(domain.AccountCompany))
	api.PUT("/companies/me", h.handleUpdateCompany, h.mw.RequireAuth, h.mw.RequireType(domain.AccountCompany))

	api.POST("/tenders", h.handleCreateTender, h.mw.RequireAuth)
	api.GET("/tenders", h.handleListTenders)
	api.GET("/tenders/stats", h.handleTenderStats, h.mw.RequireAuth)
	api.GET("/tenders/:id", h.handleGetTender)
	api.POST("/tenders/:id/apply", h.handleApply, h.mw.RequireAuth)
	api.GET("/tenders/:id/applications", h.handleListApplications, h.mw.RequireAuth)
	api.POST("/tenders/:id/applications/:appID/accept", h.handleAcceptApplication, h.mw.RequireAuth)
	api.POST("/tenders/:id/applications/:appID/reject", h.handleRejectApplication, h.mw.RequireAuth)

	api.POST("/contracts", h.handleCreateContract, h.mw.RequireAuth, h.mw.RequireType(domain.AccountCompany, domain.AccountAdmin))
	api.GET("/contracts", h.handleListContracts, h.mw.RequireAuth)
	api.GET("/contracts/me", h.handleMyContracts, h.mw.RequireAuth)
	api.GET("/contracts/stats", h.handleContractStats, h.mw.RequireAuth)
	api.GET("/contracts/:id", h.handleGetContract, h.mw.RequireAuth)
	api.PUT("/contracts/:id", h.handleUpdateContract, h.mw.RequireAuth)
	api.POST("/contracts/:id/send", h.handleSendContract, h.mw.RequireAuth)
	api.POST("/contracts/:id/sign", h.handleSignContract, h.mw.RequireAuth)
	api.POST("/contracts/:id/start", h.handleStartContract, h.mw.RequireAuth)
	api.POST("/contracts/:id/complete", h.handleCompleteContract, h.mw.RequireAuth)
	api.DELETE("/contracts/:id", h.handleCancelContract, h.mw.RequireAuth)

	api.GET("/notifications", h.handleListNotifications, h.mw.RequireAuth)
	api.GET("/notifications/stream", h.handleNotificationStream, h.mw.RequireAuth)
	api.POST("/notifications/read-all", h.handleReadAllNotifications, h.mw.RequireAuth)
	api.POST("/notifications/:id/read", h.handleReadNotification, h.mw.RequireAuth)
	api.DELETE("/notifications/:id", h.handleDeleteNotification, h.mw.RequireAuth)

	api.POST("/payments", h.handleCreatePayment, h.mw.RequireAuth)
	api.POST("/payments/:id/validate", h.handleValidatePayment, h.mw.RequireAuth)
	api.GET("/payments/freelancer", h.handleFreelancerPayments, h.mw.RequireAuth, h.mw.RequireType(domain.AccountFreelancer))
	api.GET("/payments/company", h.handleCompanyPayments, h.mw.RequireAuth, h.mw.RequireType(domain.AccountCompany))
	api.GET("/payments/:id", h.handleGetPayment, h.mw.RequireAuth)

	api.GET("/geocoding/search", h.handleGeocodingSearch)

	admin := api.Group("/admin", h.mw.RequireAuth, h.mw.RequireType(domain.AccountAdmin))
	admin.GET("/users", h.handleAdminListUsers)
	admin.GET("/user-search", h.handleAdminSearchUsers)
	admin.GET("/users/:id", h.handleAdminGetUser)
	admin.PUT("/users/:id", h.handleAdminUpdateUser)
	admin.DELETE("/users/:id", h.handleAdminDeleteUser)
	admin.GET("/users/:id/activity", h.handleAdminUserActivity)
	admin.GET("/stats", h.handleAdminStats)
	admin.GET("/map-data", h.handleAdminMapData)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryFloat(c echo.Context, name string) *float64 {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
