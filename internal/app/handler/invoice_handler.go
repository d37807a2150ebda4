package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"labservices/internal/app/billing"
	"labservices/internal/app/ds"
	"labservices/internal/app/dto"
	"labservices/internal/app/export"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GenerateInvoices выполняет пакетную генерацию счетов за период
// @Summary Сгенерировать счета
// @Description Выставляет по одному счету на исследователя по заявкам за период
// @Tags Invoices
// @Accept json
// @Produce json
// @Param period body dto.GenerateInvoicesRequest true "Диапазон дат"
// @Success 200 {object} billing.Result
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/invoices/generate [post]
func (h *APIHandler) GenerateInvoices(c *gin.Context) {
	var req dto.GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	// Валидация дат до обращения к базе
	from, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_from, ожидается ГГГГ-ММ-ДД")
		return
	}
	to, err := time.Parse(dateLayout, req.DateTo)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_to, ожидается ГГГГ-ММ-ДД")
		return
	}

	_, login, _, _ := h.getUserFromContext(c)

	result, err := h.Generator.GenerateInvoices(from, to, login)
	if err != nil {
		if errors.Is(err, billing.ErrBadRange) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logrus.Errorf("invoice generation failed: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка генерации счетов")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvoices получает список счетов
// @Summary Список счетов
// @Tags Invoices
// @Produce json
// @Param status query string false "Фильтр по статусу (pending/paid)"
// @Param year query int false "Фильтр по году"
// @Success 200 {object} dto.InvoiceListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/invoices [get]
func (h *APIHandler) GetInvoices(c *gin.Context) {
	status := c.Query("status")

	year := 0
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный год")
			return
		}
		year = parsed
	}

	invoices, err := h.Repository.ListInvoices(status, year)
	if err != nil {
		logrus.Errorf("failed to list invoices: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения счетов")
		return
	}

	response := dto.InvoiceListResponse{
		Invoices: make([]dto.InvoiceResponse, 0, len(invoices)),
		Total:    len(invoices),
	}
	for _, invoice := range invoices {
		response.Invoices = append(response.Invoices, invoiceToResponse(invoice))
	}

	c.JSON(http.StatusOK, response)
}

// GetInvoice получает счет по ID вместе с вошедшими в него заявками
// @Summary Получить счет
// @Tags Invoices
// @Produce json
// @Param id path int true "ID счета"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/invoices/{id} [get]
func (h *APIHandler) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID счета")
		return
	}

	invoice, err := h.Repository.GetInvoiceByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Счет не найден")
			return
		}
		logrus.Errorf("failed to get invoice %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения счета")
		return
	}

	requests, err := h.Repository.ListRequestsByInvoice(invoice.ID)
	if err != nil {
		logrus.Errorf("failed to list invoice requests %d: %v", id, err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения заявок счета")
		return
	}

	response := invoiceToResponse(*invoice)
	response.Requests = make([]dto.RequestResponse, 0, len(requests))
	for _, request := range requests {
		response.Requests = append(response.Requests, requestToResponse(request))
	}

	c.JSON(http.StatusOK, response)
}

// MarkInvoicePaid отмечает счет оплаченным
// @Summary Отметить счет оплаченным
// @Tags Invoices
// @Produce json
// @Param id path int true "ID счета"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/invoices/{id}/paid [put]
func (h *APIHandler) MarkInvoicePaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID счета")
		return
	}

	if err := h.Repository.MarkInvoicePaid(uint(id)); err != nil {
		h.errorResponse(c, http.StatusConflict, err.Error())
		return
	}

	_, login, _, _ := h.getUserFromContext(c)
	h.Repository.LogAction("PAY INVOICE", "invoice", uint(id), nil, login)

	h.successResponse(c, http.StatusOK, "Счет отмечен оплаченным", nil)
}

// ExportInvoices выгружает реестр счетов в xlsx через MinIO
// @Summary Выгрузить реестр счетов
// @Description Формирует xlsx-реестр счетов и возвращает временную ссылку на скачивание
// @Tags Invoices
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param year query int false "Фильтр по году"
// @Success 200 {object} dto.SuccessResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/invoices/export [get]
func (h *APIHandler) ExportInvoices(c *gin.Context) {
	status := c.Query("status")

	year := 0
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный год")
			return
		}
		year = parsed
	}

	invoices, err := h.Repository.ListInvoices(status, year)
	if err != nil {
		logrus.Errorf("failed to list invoices for export: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения счетов")
		return
	}

	fileData, err := export.InvoiceRegister(invoices)
	if err != nil {
		logrus.Errorf("failed to build invoice register: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка формирования реестра")
		return
	}

	objectName, err := h.MinIOClient.UploadExport(fileData, "invoices")
	if err != nil {
		logrus.Errorf("failed to upload invoice register: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки файла")
		return
	}

	url, err := h.MinIOClient.GetFileURL(objectName)
	if err != nil {
		logrus.Errorf("failed to get export URL: %v", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения ссылки")
		return
	}

	h.successResponse(c, http.StatusOK, "Реестр сформирован", gin.H{
		"file": objectName,
		"url":  url,
	})
}

func invoiceToResponse(invoice ds.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:             invoice.ID,
		Number:         invoice.Number,
		ResearcherID:   invoice.ResearcherID,
		ResearcherName: invoice.Researcher.FullName,
		Amount:         invoice.Amount,
		Status:         invoice.Status,
		CreatedAt:      invoice.CreatedAt,
	}
}
