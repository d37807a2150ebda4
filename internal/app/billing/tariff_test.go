package billing

import (
	"testing"

	"labservices/internal/app/ds"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func TestPriceFor(t *testing.T) {
	service := &ds.LabService{
		Name:   "Секвенирование",
		PriceA: floatPtr(10.5),
		PriceB: floatPtr(8.0),
		PriceC: floatPtr(15.0),
	}

	tests := []struct {
		name   string
		tariff *string
		want   float64
	}{
		{"тариф A", strPtr("A"), 10.5},
		{"тариф B", strPtr("B"), 8.0},
		{"тариф C", strPtr("C"), 15.0},
		{"тариф не задан - считаем по C", nil, 15.0},
		{"пустая строка - считаем по C", strPtr(""), 15.0},
		{"неизвестный тариф - считаем по C", strPtr("X"), 15.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ds.Researcher{Tariff: tt.tariff}
			assert.Equal(t, tt.want, PriceFor(r, service))
		})
	}
}

func TestPriceFor_MissingPrice(t *testing.T) {
	// цена для класса не заполнена - 0, без ошибки
	service := &ds.LabService{PriceB: floatPtr(8.0)}

	assert.Equal(t, 0.0, PriceFor(&ds.Researcher{Tariff: strPtr("A")}, service))
	assert.Equal(t, 8.0, PriceFor(&ds.Researcher{Tariff: strPtr("B")}, service))
	assert.Equal(t, 0.0, PriceFor(&ds.Researcher{Tariff: nil}, service))
}

func TestPriceFor_NilArgs(t *testing.T) {
	assert.Equal(t, 0.0, PriceFor(nil, nil))
	assert.Equal(t, 0.0, PriceFor(&ds.Researcher{}, nil))
}

func TestEffectiveQuantity(t *testing.T) {
	tests := []struct {
		name string
		req  ds.AnalysisRequest
		want int
	}{
		{"итоговое количество имеет приоритет", ds.AnalysisRequest{SamplesCount: 10, FinalSamplesCount: intPtr(3)}, 3},
		{"итоговое не задано - берем заявленное", ds.AnalysisRequest{SamplesCount: 5}, 5},
		{"итоговое 0 - берем заявленное", ds.AnalysisRequest{SamplesCount: 5, FinalSamplesCount: intPtr(0)}, 5},
		{"ничего не задано - 1", ds.AnalysisRequest{}, 1},
		{"заявленное 0 - 1", ds.AnalysisRequest{SamplesCount: 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveQuantity(&tt.req))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 101.64, Round2(84.0*1.21))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 1.24, Round2(1.236))
}
