package billing

import (
	"testing"
	"time"

	"labservices/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
}

func testFixtures() (map[uint]ds.Researcher, map[uint]ds.LabService) {
	researchers := map[uint]ds.Researcher{
		1: {ID: 1, FullName: "Иванов И.И.", Tariff: strPtr("A")},
		2: {ID: 2, FullName: "Петров П.П.", Tariff: nil}, // тариф не задан - класс C
	}
	services := map[uint]ds.LabService{
		10: {ID: 10, Name: "Секвенирование", Format: "pdf", PriceA: floatPtr(10.5), PriceB: floatPtr(8.0), PriceC: floatPtr(15.0)},
		11: {ID: 11, Name: "Хроматография", PriceA: floatPtr(20.0), PriceC: floatPtr(30.0)},
	}
	return researchers, services
}

func TestGroupForBilling_CostAndTotals(t *testing.T) {
	researchers, services := testFixtures()

	requests := []ds.AnalysisRequest{
		// тариф A, 5 проб по 10.5 = 52.5
		{ID: 100, RegistrationNumber: "R-100", EntryDate: testDate(10), ResearcherID: 1, ServiceID: 10, SamplesCount: 5, Status: ds.StatusProcessed},
		// итоговое количество 3 перекрывает заявленные 10: 3 x 10.5 = 31.5
		{ID: 101, RegistrationNumber: "R-101", EntryDate: testDate(11), ResearcherID: 1, ServiceID: 10, SamplesCount: 10, FinalSamplesCount: intPtr(3), Status: ds.StatusCompleted},
	}

	groups, skipped := GroupForBilling(requests, researchers, services, testDate(1), testDate(31))
	require.Empty(t, skipped)
	require.Len(t, groups, 1)

	group := groups[1]
	require.Len(t, group.Items, 2)
	assert.Equal(t, 52.5, group.Items[0].Cost)
	assert.Equal(t, 31.5, group.Items[1].Cost)
	assert.Equal(t, 84.0, group.Total)

	// порядок позиций повторяет порядок входных заявок
	assert.Equal(t, uint(100), group.Items[0].RequestID)
	assert.Equal(t, uint(101), group.Items[1].RequestID)

	// сумма группы равна сумме позиций
	var sum float64
	for _, item := range group.Items {
		sum += item.Cost
	}
	assert.Equal(t, group.Total, sum)
}

func TestGroupForBilling_Filters(t *testing.T) {
	researchers, services := testFixtures()
	invoiceID := uint(7)

	requests := []ds.AnalysisRequest{
		// до диапазона
		{ID: 1, EntryDate: testDate(1), ResearcherID: 1, ServiceID: 10, SamplesCount: 1, Status: ds.StatusProcessed},
		// конец диапазона включает весь день
		{ID: 2, EntryDate: time.Date(2024, 3, 20, 23, 30, 0, 0, time.UTC), ResearcherID: 1, ServiceID: 10, SamplesCount: 1, Status: ds.StatusProcessed},
		// статус не подлежит оплате
		{ID: 3, EntryDate: testDate(15), ResearcherID: 1, ServiceID: 10, SamplesCount: 1, Status: ds.StatusAnalysis},
		// уже в счете
		{ID: 4, EntryDate: testDate(15), ResearcherID: 1, ServiceID: 10, SamplesCount: 1, Status: ds.StatusProcessed, InvoiceID: &invoiceID},
		// после диапазона
		{ID: 5, EntryDate: testDate(21), ResearcherID: 1, ServiceID: 10, SamplesCount: 1, Status: ds.StatusProcessed},
	}

	groups, skipped := GroupForBilling(requests, researchers, services, testDate(10), testDate(20))
	require.Empty(t, skipped)
	require.Len(t, groups, 1)
	require.Len(t, groups[1].Items, 1)
	assert.Equal(t, uint(2), groups[1].Items[0].RequestID)
}

func TestGroupForBilling_UnknownResearcherSkipped(t *testing.T) {
	researchers, services := testFixtures()

	requests := []ds.AnalysisRequest{
		{ID: 1, RegistrationNumber: "R-1", EntryDate: testDate(10), ResearcherID: 99, ServiceID: 10, SamplesCount: 1, Status: ds.StatusProcessed},
		{ID: 2, RegistrationNumber: "R-2", EntryDate: testDate(10), ResearcherID: 1, ServiceID: 10, SamplesCount: 1, Status: ds.StatusProcessed},
	}

	groups, skipped := GroupForBilling(requests, researchers, services, testDate(1), testDate(31))

	require.Len(t, skipped, 1)
	assert.Equal(t, uint(1), skipped[0].RequestID)
	assert.Equal(t, "researcher not found", skipped[0].Reason)

	// осиротевшая заявка не попала ни в одну группу
	require.Len(t, groups, 1)
	require.Len(t, groups[1].Items, 1)
	assert.Equal(t, uint(2), groups[1].Items[0].RequestID)
}

func TestGroupForBilling_UnknownServiceKeptUnpriced(t *testing.T) {
	researchers, services := testFixtures()

	requests := []ds.AnalysisRequest{
		{ID: 1, EntryDate: testDate(10), ResearcherID: 1, ServiceID: 10, SamplesCount: 2, Status: ds.StatusProcessed},
		{ID: 2, EntryDate: testDate(10), ResearcherID: 1, ServiceID: 999, SamplesCount: 4, Status: ds.StatusProcessed},
	}

	groups, skipped := GroupForBilling(requests, researchers, services, testDate(1), testDate(31))
	require.Empty(t, skipped)

	group := groups[1]
	require.Len(t, group.Items, 2)
	assert.False(t, group.Items[0].Unpriced)
	assert.True(t, group.Items[1].Unpriced)
	assert.Equal(t, 0.0, group.Items[1].Cost)
	// нулевая позиция не меняет сумму
	assert.Equal(t, 21.0, group.Total)
}

func TestGroupForBilling_MissingPriceForTariff(t *testing.T) {
	researchers, services := testFixtures()

	// у услуги 11 нет цены класса B; у Петрова тариф не задан - класс C
	requests := []ds.AnalysisRequest{
		{ID: 1, EntryDate: testDate(10), ResearcherID: 2, ServiceID: 11, SamplesCount: 2, Status: ds.StatusCompleted},
	}

	groups, _ := GroupForBilling(requests, researchers, services, testDate(1), testDate(31))
	require.Len(t, groups, 1)
	assert.Equal(t, 60.0, groups[2].Total) // 2 x 30 по классу C
}

func TestGroupForBilling_Idempotent(t *testing.T) {
	researchers, services := testFixtures()

	requests := []ds.AnalysisRequest{
		{ID: 1, EntryDate: testDate(10), ResearcherID: 1, ServiceID: 10, SamplesCount: 5, Status: ds.StatusProcessed},
		{ID: 2, EntryDate: testDate(11), ResearcherID: 2, ServiceID: 11, SamplesCount: 2, Status: ds.StatusCompleted},
	}

	first, _ := GroupForBilling(requests, researchers, services, testDate(1), testDate(31))
	second, _ := GroupForBilling(requests, researchers, services, testDate(1), testDate(31))

	require.Len(t, second, len(first))
	for id, group := range first {
		assert.Equal(t, group.Total, second[id].Total)
		assert.Equal(t, group.Items, second[id].Items)
	}
}
