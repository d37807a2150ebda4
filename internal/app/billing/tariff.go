package billing

import (
	"math"

	"labservices/internal/app/ds"
)

// DefaultTariff - тарифный класс по умолчанию.
// Незаполненный или неизвестный тариф считается самым дорогим классом C.
const DefaultTariff = "C"

// NormalizeTariff приводит тариф исследователя к одному из классов A/B/C
func NormalizeTariff(tariff *string) string {
	if tariff == nil {
		return DefaultTariff
	}
	switch *tariff {
	case "A", "B", "C":
		return *tariff
	}
	return DefaultTariff
}

// PriceFor возвращает цену единицы услуги для тарифного класса исследователя.
// Отсутствующая цена трактуется как 0 - неполный справочник не должен
// блокировать расчет по остальным заявкам.
func PriceFor(researcher *ds.Researcher, service *ds.LabService) float64 {
	if service == nil {
		return 0
	}

	var price *float64
	var tariff *string
	if researcher != nil {
		tariff = researcher.Tariff
	}

	switch NormalizeTariff(tariff) {
	case "A":
		price = service.PriceA
	case "B":
		price = service.PriceB
	default:
		price = service.PriceC
	}

	if price == nil {
		return 0
	}
	return *price
}

// EffectiveQuantity возвращает число проб для расчета стоимости:
// итоговое количество, если оно указано, иначе заявленное, иначе 1
func EffectiveQuantity(req *ds.AnalysisRequest) int {
	if req.FinalSamplesCount != nil && *req.FinalSamplesCount > 0 {
		return *req.FinalSamplesCount
	}
	if req.SamplesCount > 0 {
		return req.SamplesCount
	}
	return 1
}

// Round2 округляет денежную сумму до двух знаков
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
