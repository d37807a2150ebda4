package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"labservices/internal/app/ds"
	"labservices/internal/app/dto"
	"labservices/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ownResearcherID возвращает привязку учетной записи к исследователю.
// Для персонала возвращает nil - ограничения на видимость заявок нет.
// При ошибке ответ уже записан, второй результат false
func (h *APIHandler) ownResearcherID(c *gin.Context) (*uint, bool) {
	userID, _, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Пользователь не авторизован")
		return nil, false
	}
	if userRole != role.Researcher {
		return nil, true
	}

	user, err := h.Repository.GetUserByID(userID)
	if err != nil {
		logrus.Errorf("failed to get user %d: %v", userID, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения пользователя")
		return nil, false
	}
	if user.ResearcherID == nil {
		h.errorResponse(c, http.StatusForbidden, "Учетная запись не привязана к исследователю")
		return nil, false
	}
	return user.ResearcherID, true
}

// GetRequests получает список заявок с фильтрами
// @Summary Список заявок
// @Description Возвращает заявки с фильтрами по статусу, датам и исследователю
// @Tags Requests
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param date_from query string false "Дата поступления с (2006-01-02)"
// @Param date_to query string false "Дата поступления по (2006-01-02)"
// @Param researcher_id query int false "Фильтр по исследователю"
// @Success 200 {object} dto.RequestListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests [get]
func (h *APIHandler) GetRequests(c *gin.Context) {
	status := c.Query("status")

	var dateFrom, dateTo *time.Time
	if v := c.Query("date_from"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_from, ожидается ГГГГ-ММ-ДД")
			return
		}
		dateFrom = &parsed
	}
	if v := c.Query("date_to"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_to, ожидается ГГГГ-ММ-ДД")
			return
		}
		dateTo = &parsed
	}

	var researcherID *uint
	if v := c.Query("researcher_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный researcher_id")
			return
		}
		id := uint(parsed)
		researcherID = &id
	}

	// исследователь видит только свои заявки, персонал - все
	own, ok := h.ownResearcherID(c)
	if !ok {
		return
	}
	if own != nil {
		researcherID = own
	}

	requests, err := h.Repository.ListRequests(status, dateFrom, dateTo, researcherID)
	if err != nil {
		logrus.Errorf("failed to list requests: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения заявок")
		return
	}

	response := dto.RequestListResponse{
		Requests: make([]dto.RequestResponse, 0, len(requests)),
		Total:    len(requests),
	}
	for _, request := range requests {
		response.Requests = append(response.Requests, requestToResponse(request))
	}

	c.JSON(http.StatusOK, response)
}

// GetRequest получает заявку по ID
// @Summary Получить заявку
// @Tags Requests
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id} [get]
func (h *APIHandler) GetRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	request, err := h.Repository.GetRequestByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Заявка не найдена")
			return
		}
		logrus.Errorf("failed to get request %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения заявки")
		return
	}

	own, ok := h.ownResearcherID(c)
	if !ok {
		return
	}
	if own != nil && request.ResearcherID != *own {
		h.errorResponse(c, http.StatusForbidden, "Заявка принадлежит другому исследователю")
		return
	}

	c.JSON(http.StatusOK, requestToResponse(*request))
}

// CreateRequest регистрирует новую заявку на обработку проб
// @Summary Создать заявку
// @Description Регистрирует заявку, выдает регистрационный номер REG-ГГГГ-NNNN
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Данные заявки"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests [post]
func (h *APIHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	// исследователь создает заявки только от своего имени
	own, ok := h.ownResearcherID(c)
	if !ok {
		return
	}
	if own != nil && req.ResearcherID != *own {
		h.errorResponse(c, http.StatusForbidden, "Заявку можно создать только от своего имени")
		return
	}

	// Проверяем справочные ссылки до создания
	if _, err := h.Repository.GetResearcherByID(req.ResearcherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusBadRequest, "Исследователь не найден")
			return
		}
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки исследователя")
		return
	}

	exists, err := h.Repository.ServiceExists(req.ServiceID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки услуги")
		return
	}
	if !exists {
		h.errorResponse(c, http.StatusBadRequest, "Услуга не найдена")
		return
	}

	entryDate := time.Now()
	if req.EntryDate != "" {
		parsed, err := time.Parse(dateLayout, req.EntryDate)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный формат entry_date, ожидается ГГГГ-ММ-ДД")
			return
		}
		entryDate = parsed
	}

	samplesCount := req.SamplesCount
	if samplesCount == 0 {
		samplesCount = 1
	}

	regNumber, err := h.Repository.NextRegistrationNumber(entryDate.Year())
	if err != nil {
		logrus.Errorf("failed to allocate registration number: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка выдачи регистрационного номера")
		return
	}

	request := ds.AnalysisRequest{
		RegistrationNumber: regNumber,
		EntryDate:          entryDate,
		ResearcherID:       req.ResearcherID,
		ServiceID:          req.ServiceID,
		SamplesCount:       samplesCount,
		Status:             ds.StatusPending,
		CreatedAt:          time.Now(),
	}

	if err := h.Repository.CreateRequest(&request); err != nil {
		logrus.Errorf("failed to create request: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания заявки")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("CREATE REQUEST", "request", request.ID, req, login)

	c.JSON(http.StatusCreated, requestToResponse(request))
}

// UpdateRequestCounts обновляет количество проб в заявке
// @Summary Обновить количество проб
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param counts body dto.UpdateRequestCountsRequest true "Количество проб"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests/{id} [put]
func (h *APIHandler) UpdateRequestCounts(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	request, err := h.Repository.GetRequestByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Заявка не найдена")
			return
		}
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения заявки")
		return
	}

	// Выставленную в счет заявку менять нельзя
	if request.Status == ds.StatusBilled {
		h.errorResponse(c, http.StatusConflict, "Заявка уже включена в счет")
		return
	}

	var req dto.UpdateRequestCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	if err := h.Repository.UpdateRequestCounts(uint(id), req.SamplesCount, req.FinalSamplesCount); err != nil {
		logrus.Errorf("failed to update request counts %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления заявки")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("UPDATE COUNTS", "request", uint(id), req, login)

	h.successResponse(c, http.StatusOK, "Количество проб обновлено", nil)
}

// UpdateRequestStatus переводит заявку в новый статус
// @Summary Изменить статус заявки
// @Description Переводит заявку на шаг вперед по машине статусов
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param status body dto.UpdateRequestStatusRequest true "Новый статус"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/status [put]
func (h *APIHandler) UpdateRequestStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	if err := h.Repository.UpdateRequestStatus(uint(id), req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Заявка не найдена")
			return
		}
		h.errorResponse(c, http.StatusConflict, err.Error())
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("UPDATE STATUS", "request", uint(id), req, login)

	h.successResponse(c, http.StatusOK, "Статус заявки обновлен", nil)
}

// RestoreRequest возвращает заявку в статус pending
// @Summary Восстановить заявку
// @Description Возвращает заявку в pending из любого статуса кроме billed
// @Tags Requests
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/restore [put]
func (h *APIHandler) RestoreRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	if err := h.Repository.RestoreRequest(uint(id)); err != nil {
		h.errorResponse(c, http.StatusConflict, err.Error())
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("RESTORE REQUEST", "request", uint(id), nil, login)

	h.successResponse(c, http.StatusOK, "Заявка восстановлена", nil)
}

// DeleteRequest удаляет заявку в статусе pending
// @Summary Удалить заявку
// @Tags Requests
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id} [delete]
func (h *APIHandler) DeleteRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	own, ok := h.ownResearcherID(c)
	if !ok {
		return
	}
	if own != nil {
		request, err := h.Repository.GetRequestByID(uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.errorResponse(c, http.StatusNotFound, "Заявка не найдена")
				return
			}
			h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения заявки")
			return
		}
		if request.ResearcherID != *own {
			h.errorResponse(c, http.StatusForbidden, "Заявка принадлежит другому исследователю")
			return
		}
	}

	if err := h.Repository.DeleteRequest(uint(id)); err != nil {
		h.errorResponse(c, http.StatusConflict, err.Error())
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("DELETE REQUEST", "request", uint(id), nil, login)

	h.successResponse(c, http.StatusOK, "Заявка удалена", nil)
}

func requestToResponse(request ds.AnalysisRequest) dto.RequestResponse {
	return dto.RequestResponse{
		ID:                 request.ID,
		RegistrationNumber: request.RegistrationNumber,
		EntryDate:          request.EntryDate,
		ResearcherID:       request.ResearcherID,
		ResearcherName:     request.Researcher.FullName,
		ServiceID:          request.ServiceID,
		ServiceName:        request.Service.Name,
		SamplesCount:       request.SamplesCount,
		FinalSamplesCount:  request.FinalSamplesCount,
		Status:             request.Status,
		InvoiceID:          request.InvoiceID,
		CreatedAt:          request.CreatedAt,
	}
}
