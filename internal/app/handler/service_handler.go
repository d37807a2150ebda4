package handler

import (
	"net/http"
	"strconv"

	"labservices/internal/app/ds"
	"labservices/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetServices получает список услуг лаборатории
// @Summary Список услуг
// @Description Возвращает список услуг с поиском по названию
// @Tags Services
// @Produce json
// @Param name query string false "Поиск по названию"
// @Success 200 {object} dto.ServiceListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/services [get]
func (h *APIHandler) GetServices(c *gin.Context) {
	searchQuery := c.Query("name")

	var services []ds.LabService
	var err error

	if searchQuery != "" {
		services, err = h.Repository.SearchServicesByName(searchQuery)
	} else {
		services, err = h.Repository.GetAllServices()
	}

	if err != nil {
		logrus.Errorf("failed to get services: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения услуг")
		return
	}

	response := dto.ServiceListResponse{
		Services: make([]dto.ServiceResponse, 0, len(services)),
		Total:    len(services),
	}
	for _, service := range services {
		response.Services = append(response.Services, serviceToResponse(service))
	}

	c.JSON(http.StatusOK, response)
}

// GetService получает услугу по ID
// @Summary Получить услугу
// @Tags Services
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} dto.ServiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services/{id} [get]
func (h *APIHandler) GetService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID услуги")
		return
	}

	service, err := h.Repository.GetServiceByID(uint(id))
	if err != nil {
		logrus.Errorf("failed to get service %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения услуги")
		return
	}
	if service == nil {
		h.errorResponse(c, http.StatusNotFound, "Услуга не найдена")
		return
	}

	c.JSON(http.StatusOK, serviceToResponse(*service))
}

// CreateService создает новую услугу
// @Summary Создать услугу
// @Tags Services
// @Accept json
// @Produce json
// @Param service body dto.CreateServiceRequest true "Данные услуги"
// @Success 201 {object} dto.ServiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/services [post]
func (h *APIHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	service := ds.LabService{
		Name:   req.Name,
		PriceA: req.PriceA,
		PriceB: req.PriceB,
		PriceC: req.PriceC,
		Format: req.Format,
	}

	if err := h.Repository.CreateService(&service); err != nil {
		logrus.Errorf("failed to create service: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания услуги")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("CREATE SERVICE", "service", service.ID, req, login)

	c.JSON(http.StatusCreated, serviceToResponse(service))
}

// UpdateService обновляет услугу
// @Summary Обновить услугу
// @Tags Services
// @Accept json
// @Produce json
// @Param id path int true "ID услуги"
// @Param service body dto.UpdateServiceRequest true "Данные услуги"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/services/{id} [put]
func (h *APIHandler) UpdateService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID услуги")
		return
	}

	exists, err := h.Repository.ServiceExists(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки услуги")
		return
	}
	if !exists {
		h.errorResponse(c, http.StatusNotFound, "Услуга не найдена")
		return
	}

	var req dto.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.PriceA != nil {
		updates["price_a"] = *req.PriceA
	}
	if req.PriceB != nil {
		updates["price_b"] = *req.PriceB
	}
	if req.PriceC != nil {
		updates["price_c"] = *req.PriceC
	}
	if req.Format != "" {
		updates["format"] = req.Format
	}

	if err := h.Repository.UpdateService(uint(id), updates); err != nil {
		logrus.Errorf("failed to update service %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления услуги")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("UPDATE SERVICE", "service", uint(id), updates, login)

	h.successResponse(c, http.StatusOK, "Услуга обновлена", nil)
}

// DeleteService логически удаляет услугу
// @Summary Удалить услугу
// @Tags Services
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services/{id} [delete]
func (h *APIHandler) DeleteService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID услуги")
		return
	}

	exists, err := h.Repository.ServiceExists(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки услуги")
		return
	}
	if !exists {
		h.errorResponse(c, http.StatusNotFound, "Услуга не найдена")
		return
	}

	if err := h.Repository.DeleteService(uint(id)); err != nil {
		logrus.Errorf("failed to delete service %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка удаления услуги")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("DELETE SERVICE", "service", uint(id), nil, login)

	h.successResponse(c, http.StatusOK, "Услуга удалена", nil)
}

func serviceToResponse(service ds.LabService) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:     service.ID,
		Name:   service.Name,
		PriceA: service.PriceA,
		PriceB: service.PriceB,
		PriceC: service.PriceC,
		Format: service.Format,
	}
}
