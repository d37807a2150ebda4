package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"labservices/internal/app/billing"
	"labservices/internal/app/config"
	"labservices/internal/app/ds"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фиктивное хранилище для эндпоинта генерации счетов

type stubStore struct {
	requests    []ds.AnalysisRequest
	researchers map[uint]ds.Researcher
	services    map[uint]ds.LabService
	created     []ds.Invoice
}

func (s *stubStore) ListBillableRequests(from, to time.Time) ([]ds.AnalysisRequest, error) {
	return s.requests, nil
}

func (s *stubStore) GetResearchersMap() (map[uint]ds.Researcher, error) {
	return s.researchers, nil
}

func (s *stubStore) GetServicesMap() (map[uint]ds.LabService, error) {
	return s.services, nil
}

func (s *stubStore) CountInvoicesForYear(year int) (int64, error) {
	return int64(len(s.created)), nil
}

func (s *stubStore) CreateInvoiceWithRequests(invoice *ds.Invoice, requestIDs []uint) error {
	invoice.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *invoice)
	return nil
}

func newGenerateTestHandler(store billing.Store) *APIHandler {
	gin.SetMode(gin.TestMode)
	generator := billing.NewGenerator(store, nil, config.BillingConfig{VATRate: 0.21})
	return &APIHandler{Generator: generator}
}

func performGenerate(h *APIHandler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/invoices/generate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", uint(1))
	c.Set("userLogin", "admin")

	h.GenerateInvoices(c)
	return w
}

func TestGenerateInvoices_BadDateFormat(t *testing.T) {
	h := newGenerateTestHandler(&stubStore{})

	w := performGenerate(h, `{"date_from":"01.03.2024","date_to":"2024-03-31"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date_from")
}

func TestGenerateInvoices_MissingFields(t *testing.T) {
	h := newGenerateTestHandler(&stubStore{})

	w := performGenerate(h, `{"date_from":"2024-03-01"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateInvoices_ReversedRange(t *testing.T) {
	h := newGenerateTestHandler(&stubStore{})

	w := performGenerate(h, `{"date_from":"2024-03-31","date_to":"2024-03-01"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateInvoices_Success(t *testing.T) {
	tariff := "A"
	price := 10.0
	store := &stubStore{
		requests: []ds.AnalysisRequest{
			{
				ID:           1,
				EntryDate:    time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
				ResearcherID: 1,
				ServiceID:    10,
				SamplesCount: 2,
				Status:       ds.StatusProcessed,
			},
		},
		researchers: map[uint]ds.Researcher{
			1: {ID: 1, FullName: "Иванов И.И.", Tariff: &tariff},
		},
		services: map[uint]ds.LabService{
			10: {ID: 10, Name: "Спектральный анализ", PriceA: &price},
		},
	}
	h := newGenerateTestHandler(store)

	w := performGenerate(h, `{"date_from":"2024-03-01","date_to":"2024-03-31"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.created, 1)
	assert.Contains(t, w.Body.String(), store.created[0].Number)
	// 2 пробы по 10.0 плюс НДС 21%
	assert.InDelta(t, 24.2, store.created[0].Amount, 0.001)
}
