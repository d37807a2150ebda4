package billing

import (
	"time"

	"labservices/internal/app/ds"
)

// Item - одна заявка внутри группы счета
type Item struct {
	RequestID          uint    `json:"request_id"`
	RegistrationNumber string  `json:"registration_number"`
	ServiceName        string  `json:"service_name"`
	Format             string  `json:"format"`
	Quantity           int     `json:"quantity"`
	Cost               float64 `json:"cost"`
	Unpriced           bool    `json:"unpriced,omitempty"` // услуга не найдена, стоимость 0, требуется ручная правка
}

// Group - заявки одного исследователя с суммой без налога
type Group struct {
	Researcher ds.Researcher `json:"researcher"`
	Items      []Item        `json:"items"`
	Total      float64       `json:"total"`
}

// Skipped - заявка, исключенная из расчета, с причиной
type Skipped struct {
	RequestID          uint   `json:"request_id"`
	RegistrationNumber string `json:"registration_number"`
	Reason             string `json:"reason"`
}

// GroupForBilling разбивает заявки по исследователям и считает стоимость.
// Отбираются заявки со статусом processed/completed без счета, у которых
// дата поступления попадает в [from, to], где to включает весь день.
// Заявки с неизвестным исследователем не попадают в группы и возвращаются
// отдельным списком. Неизвестная услуга дает позицию со стоимостью 0.
func GroupForBilling(requests []ds.AnalysisRequest, researchers map[uint]ds.Researcher, services map[uint]ds.LabService, from, to time.Time) (map[uint]*Group, []Skipped) {
	groups := make(map[uint]*Group)
	var skipped []Skipped

	endOfDay := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())

	for i := range requests {
		req := &requests[i]

		if !ds.BillableStatus(req.Status) || req.InvoiceID != nil {
			continue
		}
		if req.EntryDate.Before(from) || req.EntryDate.After(endOfDay) {
			continue
		}

		researcher, ok := researchers[req.ResearcherID]
		if !ok {
			skipped = append(skipped, Skipped{
				RequestID:          req.ID,
				RegistrationNumber: req.RegistrationNumber,
				Reason:             "researcher not found",
			})
			continue
		}

		item := Item{
			RequestID:          req.ID,
			RegistrationNumber: req.RegistrationNumber,
			Quantity:           EffectiveQuantity(req),
		}

		if service, ok := services[req.ServiceID]; ok {
			item.ServiceName = service.Name
			item.Format = service.Format
			item.Cost = PriceFor(&researcher, &service) * float64(item.Quantity)
		} else {
			// услугу удалили из справочника - позицию оставляем,
			// чтобы персонал увидел и поправил руками
			item.Unpriced = true
		}

		group, ok := groups[req.ResearcherID]
		if !ok {
			group = &Group{Researcher: researcher}
			groups[req.ResearcherID] = group
		}
		group.Items = append(group.Items, item)
		group.Total += item.Cost
	}

	return groups, skipped
}
