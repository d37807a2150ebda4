package handler

import (
	"errors"
	"net/http"
	"strconv"

	"labservices/internal/app/ds"
	"labservices/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GetResearchers получает список исследователей
// @Summary Список исследователей
// @Description Возвращает исследователей с поиском по имени или центру
// @Tags Researchers
// @Produce json
// @Param search query string false "Поиск по имени или центру"
// @Success 200 {object} dto.ResearcherListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/researchers [get]
func (h *APIHandler) GetResearchers(c *gin.Context) {
	searchQuery := c.Query("search")

	var researchers []ds.Researcher
	var err error

	if searchQuery != "" {
		researchers, err = h.Repository.SearchResearchers(searchQuery)
	} else {
		researchers, err = h.Repository.GetAllResearchers()
	}

	if err != nil {
		logrus.Errorf("failed to get researchers: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения исследователей")
		return
	}

	response := dto.ResearcherListResponse{
		Researchers: make([]dto.ResearcherResponse, 0, len(researchers)),
		Total:       len(researchers),
	}
	for _, researcher := range researchers {
		response.Researchers = append(response.Researchers, researcherToResponse(researcher))
	}

	c.JSON(http.StatusOK, response)
}

// GetResearcher получает исследователя по ID
// @Summary Получить исследователя
// @Tags Researchers
// @Produce json
// @Param id path int true "ID исследователя"
// @Success 200 {object} dto.ResearcherResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/researchers/{id} [get]
func (h *APIHandler) GetResearcher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID исследователя")
		return
	}

	researcher, err := h.Repository.GetResearcherByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Исследователь не найден")
			return
		}
		logrus.Errorf("failed to get researcher %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения исследователя")
		return
	}

	c.JSON(http.StatusOK, researcherToResponse(*researcher))
}

// CreateResearcher создает исследователя
// @Summary Создать исследователя
// @Tags Researchers
// @Accept json
// @Produce json
// @Param researcher body dto.CreateResearcherRequest true "Данные исследователя"
// @Success 201 {object} dto.ResearcherResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/researchers [post]
func (h *APIHandler) CreateResearcher(c *gin.Context) {
	var req dto.CreateResearcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	researcher := ds.Researcher{
		FullName: req.FullName,
		Center:   req.Center,
		Tariff:   req.Tariff,
		Email:    req.Email,
		Phone:    req.Phone,
		FiscalID: req.FiscalID,
	}

	if err := h.Repository.CreateResearcher(&researcher); err != nil {
		logrus.Errorf("failed to create researcher: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка создания исследователя")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("CREATE RESEARCHER", "researcher", researcher.ID, req, login)

	c.JSON(http.StatusCreated, researcherToResponse(researcher))
}

// UpdateResearcher обновляет данные исследователя
// @Summary Обновить исследователя
// @Tags Researchers
// @Accept json
// @Produce json
// @Param id path int true "ID исследователя"
// @Param researcher body dto.UpdateResearcherRequest true "Данные исследователя"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/researchers/{id} [put]
func (h *APIHandler) UpdateResearcher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID исследователя")
		return
	}

	if _, err := h.Repository.GetResearcherByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Исследователь не найден")
			return
		}
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки исследователя")
		return
	}

	var req dto.UpdateResearcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Center != "" {
		updates["center"] = req.Center
	}
	if req.Tariff != nil {
		updates["tariff"] = *req.Tariff
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.FiscalID != "" {
		updates["fiscal_id"] = req.FiscalID
	}

	if err := h.Repository.UpdateResearcher(uint(id), updates); err != nil {
		logrus.Errorf("failed to update researcher %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка обновления исследователя")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("UPDATE RESEARCHER", "researcher", uint(id), updates, login)

	h.successResponse(c, http.StatusOK, "Исследователь обновлен", nil)
}

// DeleteResearcher удаляет исследователя
// @Summary Удалить исследователя
// @Tags Researchers
// @Produce json
// @Param id path int true "ID исследователя"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/researchers/{id} [delete]
func (h *APIHandler) DeleteResearcher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID исследователя")
		return
	}

	if _, err := h.Repository.GetResearcherByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Исследователь не найден")
			return
		}
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка проверки исследователя")
		return
	}

	if err := h.Repository.DeleteResearcher(uint(id)); err != nil {
		logrus.Errorf("failed to delete researcher %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка удаления исследователя")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("DELETE RESEARCHER", "researcher", uint(id), nil, login)

	h.successResponse(c, http.StatusOK, "Исследователь удален", nil)
}

func researcherToResponse(researcher ds.Researcher) dto.ResearcherResponse {
	return dto.ResearcherResponse{
		ID:       researcher.ID,
		FullName: researcher.FullName,
		Center:   researcher.Center,
		Tariff:   researcher.Tariff,
		Email:    researcher.Email,
		Phone:    researcher.Phone,
		FiscalID: researcher.FiscalID,
	}
}
