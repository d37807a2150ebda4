package handler

import (
	"labservices/internal/app/middleware"
	"labservices/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	// REST API маршруты
	api := router.Group("/api")

	// ============ Услуги (Services) - публичные и для администраторов ============
	services := api.Group("/services")
	{
		// Публичные эндпоинты (без авторизации)
		services.GET("", h.GetServices)    // GET список с поиском
		services.GET("/:id", h.GetService) // GET одна запись

		// Только для администраторов (управление справочником)
		services.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreateService)
		services.PUT("/:id", authMiddleware.WithAuthCheck(role.Admin), h.UpdateService)
		services.DELETE("/:id", authMiddleware.WithAuthCheck(role.Admin), h.DeleteService)
	}

	// ============ Исследователи (Researchers) - для персонала ============
	researchers := api.Group("/researchers")
	{
		researchers.GET("", authMiddleware.WithAuthCheck(role.Technician, role.Admin), h.GetResearchers)
		researchers.GET("/:id", authMiddleware.WithAuthCheck(role.Technician, role.Admin), h.GetResearcher)

		researchers.POST("", authMiddleware.WithAuthCheck(role.Admin), h.CreateResearcher)
		researchers.PUT("/:id", authMiddleware.WithAuthCheck(role.Admin), h.UpdateResearcher)
		researchers.DELETE("/:id", authMiddleware.WithAuthCheck(role.Admin), h.DeleteResearcher)
	}

	// ============ Заявки (Requests) - для авторизованных пользователей ============
	requests := api.Group("/requests")
	{
		requests.GET("", authMiddleware.WithAuthCheck(role.Researcher, role.Technician, role.Admin), h.GetRequests)
		requests.GET("/:id", authMiddleware.WithAuthCheck(role.Researcher, role.Technician, role.Admin), h.GetRequest)
		requests.POST("", authMiddleware.WithAuthCheck(role.Researcher, role.Technician, role.Admin), h.CreateRequest)
		requests.DELETE("/:id", authMiddleware.WithAuthCheck(role.Researcher, role.Technician, role.Admin), h.DeleteRequest)

		// Ведение заявки - только персонал
		requests.PUT("/:id", authMiddleware.WithAuthCheck(role.Technician, role.Admin), h.UpdateRequestCounts)
		requests.PUT("/:id/status", authMiddleware.WithAuthCheck(role.Technician, role.Admin), h.UpdateRequestStatus)
		requests.PUT("/:id/restore", authMiddleware.WithAuthCheck(role.Technician, role.Admin), h.RestoreRequest)
	}

	// ============ Счета (Invoices) - только для администраторов ============
	invoices := api.Group("/invoices")
	invoices.Use(authMiddleware.WithAuthCheck(role.Admin))
	{
		invoices.POST("/generate", h.GenerateInvoices) // POST пакетная генерация
		invoices.GET("", h.GetInvoices)
		invoices.GET("/export", h.ExportInvoices) // GET выгрузка реестра в xlsx
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id/paid", h.MarkInvoicePaid)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		// Защищенные эндпоинты
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.Researcher, role.Technician, role.Admin), h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(role.Researcher, role.Technician, role.Admin), h.UpdateProfile)
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.Researcher, role.Technician, role.Admin), h.AuthHandler.LogoutUser)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
