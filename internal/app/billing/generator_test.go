package billing

import (
	"errors"
	"testing"
	"time"

	"labservices/internal/app/config"
	"labservices/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Фиктивное хранилище
// ---------------------------------------------------------------------------

type fakeStore struct {
	requests    []ds.AnalysisRequest
	researchers map[uint]ds.Researcher
	services    map[uint]ds.LabService
	invoices    []ds.Invoice

	// инъекция ошибки записи для конкретного исследователя
	failForResearcher uint

	// имитация конкурентной генерации: первая запись натыкается на
	// занятый номер, счет конкурента появляется в базе
	numberConflict bool

	listErr  error
	countErr error
}

func (f *fakeStore) ListBillableRequests(from, to time.Time) ([]ds.AnalysisRequest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.requests, nil
}

func (f *fakeStore) GetResearchersMap() (map[uint]ds.Researcher, error) {
	return f.researchers, nil
}

func (f *fakeStore) GetServicesMap() (map[uint]ds.LabService, error) {
	return f.services, nil
}

func (f *fakeStore) CountInvoicesForYear(year int) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	var count int64
	for _, inv := range f.invoices {
		if inv.CreatedAt.Year() == year {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreateInvoiceWithRequests(invoice *ds.Invoice, requestIDs []uint) error {
	if f.failForResearcher != 0 && invoice.ResearcherID == f.failForResearcher {
		return errors.New("database is locked")
	}
	if f.numberConflict {
		f.numberConflict = false
		f.invoices = append(f.invoices, ds.Invoice{
			ID: 900, Number: invoice.Number, CreatedAt: invoice.CreatedAt,
		})
		return errors.New("UNIQUE constraint failed: invoices.number")
	}

	invoice.ID = uint(len(f.invoices) + 1)
	f.invoices = append(f.invoices, *invoice)

	ids := make(map[uint]bool, len(requestIDs))
	for _, id := range requestIDs {
		ids[id] = true
	}
	for i := range f.requests {
		if ids[f.requests[i].ID] {
			f.requests[i].Status = ds.StatusBilled
			f.requests[i].InvoiceID = &invoice.ID
		}
	}
	return nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) LogAction(action, entityType string, entityID uint, details interface{}, userLogin string) {
	f.actions = append(f.actions, action)
}

func newTestGenerator(store *fakeStore, audit AuditLogger, skipZero bool) *Generator {
	g := NewGenerator(store, audit, config.BillingConfig{
		VATRate:                0.21,
		SkipZeroAmountInvoices: skipZero,
	})
	g.now = func() time.Time { return time.Date(2024, 3, 25, 10, 0, 0, 0, time.UTC) }
	return g
}

func newBillableStore() *fakeStore {
	researchers, services := testFixtures()
	return &fakeStore{
		researchers: researchers,
		services:    services,
		requests: []ds.AnalysisRequest{
			{ID: 100, RegistrationNumber: "R-100", EntryDate: testDate(10), ResearcherID: 1, ServiceID: 10, SamplesCount: 5, Status: ds.StatusProcessed},
			{ID: 101, RegistrationNumber: "R-101", EntryDate: testDate(11), ResearcherID: 1, ServiceID: 10, SamplesCount: 10, FinalSamplesCount: intPtr(3), Status: ds.StatusCompleted},
			{ID: 102, RegistrationNumber: "R-102", EntryDate: testDate(12), ResearcherID: 2, ServiceID: 11, SamplesCount: 2, Status: ds.StatusProcessed},
		},
	}
}

// ---------------------------------------------------------------------------
// Тесты
// ---------------------------------------------------------------------------

func TestGenerateInvoices_BadRange(t *testing.T) {
	g := newTestGenerator(&fakeStore{}, nil, false)

	_, err := g.GenerateInvoices(time.Time{}, testDate(20), "admin")
	assert.ErrorIs(t, err, ErrBadRange)

	_, err = g.GenerateInvoices(testDate(20), testDate(10), "admin")
	assert.ErrorIs(t, err, ErrBadRange)
}

func TestGenerateInvoices_HappyPath(t *testing.T) {
	store := newBillableStore()
	audit := &fakeAudit{}
	g := newTestGenerator(store, audit, false)

	result, err := g.GenerateInvoices(testDate(1), testDate(31), "admin")
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Len(t, result.Invoices, 2)

	// группы обходятся по возрастанию ID исследователя
	first, second := result.Invoices[0], result.Invoices[1]
	assert.Equal(t, "2024-001", first.Number)
	assert.Equal(t, uint(1), first.ResearcherID)
	// (52.5 + 31.5) x 1.21
	assert.Equal(t, 101.64, first.Amount)
	assert.Equal(t, 2, first.RequestCount)

	assert.Equal(t, "2024-002", second.Number)
	assert.Equal(t, uint(2), second.ResearcherID)
	// 2 x 30 по классу C, x 1.21
	assert.Equal(t, 72.6, second.Amount)

	// постусловие: все вошедшие заявки billed со ссылкой на счет
	for _, req := range store.requests {
		assert.Equal(t, ds.StatusBilled, req.Status)
		require.NotNil(t, req.InvoiceID)
	}

	assert.Equal(t, []string{"CREATE INVOICE", "CREATE INVOICE"}, audit.actions)
}

func TestGenerateInvoices_NumberingContinuesFromExisting(t *testing.T) {
	store := newBillableStore()
	store.invoices = []ds.Invoice{
		{ID: 1, Number: "2024-001", CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Number: "2024-002", CreatedAt: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
	}
	g := newTestGenerator(store, nil, false)

	result, err := g.GenerateInvoices(testDate(1), testDate(31), "admin")
	require.NoError(t, err)
	require.Len(t, result.Invoices, 2)
	assert.Equal(t, "2024-003", result.Invoices[0].Number)
	assert.Equal(t, "2024-004", result.Invoices[1].Number)
}

func TestGenerateInvoices_PartialFailure(t *testing.T) {
	store := newBillableStore()
	store.failForResearcher = 2
	g := newTestGenerator(store, nil, false)

	result, err := g.GenerateInvoices(testDate(1), testDate(31), "admin")
	require.NoError(t, err)

	// группа 1 записана, группа 2 попала в ошибки с указанием исследователя
	require.Len(t, result.Invoices, 1)
	assert.Equal(t, uint(1), result.Invoices[0].ResearcherID)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, uint(2), result.Failures[0].ResearcherID)
	assert.Equal(t, "Петров П.П.", result.Failures[0].ResearcherName)
	assert.Contains(t, result.Failures[0].Error, "database is locked")

	// успешная группа осталась записанной
	require.Len(t, store.invoices, 1)
	for _, req := range store.requests {
		if req.ResearcherID == 1 {
			assert.Equal(t, ds.StatusBilled, req.Status)
		} else {
			assert.Equal(t, ds.StatusProcessed, req.Status)
			assert.Nil(t, req.InvoiceID)
		}
	}
}

func TestGenerateInvoices_OrphanedRequestReported(t *testing.T) {
	store := newBillableStore()
	store.requests = append(store.requests, ds.AnalysisRequest{
		ID: 200, RegistrationNumber: "R-200", EntryDate: testDate(13),
		ResearcherID: 99, ServiceID: 10, SamplesCount: 1, Status: ds.StatusProcessed,
	})
	g := newTestGenerator(store, nil, false)

	result, err := g.GenerateInvoices(testDate(1), testDate(31), "admin")
	require.NoError(t, err)

	// осиротевшая заявка не валит пакет и не попадает в счета
	assert.Len(t, result.Invoices, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, uint(200), result.Skipped[0].RequestID)

	for _, req := range store.requests {
		if req.ID == 200 {
			assert.Equal(t, ds.StatusProcessed, req.Status)
			assert.Nil(t, req.InvoiceID)
		}
	}
}

func TestGenerateInvoices_ZeroAmountPolicy(t *testing.T) {
	// у исследователя только позиции с незаполненной ценой - сумма 0
	researchers, _ := testFixtures()
	services := map[uint]ds.LabService{
		10: {ID: 10, Name: "Секвенирование"}, // все цены NULL
	}
	makeStore := func() *fakeStore {
		return &fakeStore{
			researchers: researchers,
			services:    services,
			requests: []ds.AnalysisRequest{
				{ID: 1, EntryDate: testDate(10), ResearcherID: 1, ServiceID: 10, SamplesCount: 2, Status: ds.StatusProcessed},
			},
		}
	}

	// политика по умолчанию: нулевой счет выставляется, раз позиции есть
	store := makeStore()
	result, err := newTestGenerator(store, nil, false).GenerateInvoices(testDate(1), testDate(31), "admin")
	require.NoError(t, err)
	require.Len(t, result.Invoices, 1)
	assert.Equal(t, 0.0, result.Invoices[0].Amount)

	// с флагом нулевые группы пропускаются
	store = makeStore()
	result, err = newTestGenerator(store, nil, true).GenerateInvoices(testDate(1), testDate(31), "admin")
	require.NoError(t, err)
	assert.Empty(t, result.Invoices)
	assert.Empty(t, store.invoices)
}

func TestGenerateInvoices_RetriesOnNumberConflict(t *testing.T) {
	store := newBillableStore()
	store.numberConflict = true
	g := newTestGenerator(store, nil, false)

	result, err := g.GenerateInvoices(testDate(1), testDate(31), "admin")
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Len(t, result.Invoices, 2)

	// номер 2024-001 успел забрать конкурент, первая группа получает следующий
	assert.Equal(t, "2024-002", result.Invoices[0].Number)
	assert.Equal(t, "2024-003", result.Invoices[1].Number)
}

func TestGenerateInvoices_StoreErrors(t *testing.T) {
	store := newBillableStore()
	store.listErr = errors.New("disk I/O error")
	_, err := newTestGenerator(store, nil, false).GenerateInvoices(testDate(1), testDate(31), "admin")
	assert.Error(t, err)

	store = newBillableStore()
	store.countErr = errors.New("disk I/O error")
	_, err = newTestGenerator(store, nil, false).GenerateInvoices(testDate(1), testDate(31), "admin")
	assert.Error(t, err)
}
