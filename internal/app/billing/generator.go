package billing

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"labservices/internal/app/config"
	"labservices/internal/app/ds"
)

// ErrBadRange - некорректный диапазон дат, до обращения к базе дело не доходит
var ErrBadRange = errors.New("некорректный диапазон дат")

// Store - минимальный доступ к хранилищу для генерации счетов
type Store interface {
	ListBillableRequests(from, to time.Time) ([]ds.AnalysisRequest, error)
	GetResearchersMap() (map[uint]ds.Researcher, error)
	GetServicesMap() (map[uint]ds.LabService, error)
	CountInvoicesForYear(year int) (int64, error)
	// CreateInvoiceWithRequests создает счет и переводит заявки в billed
	// одной транзакцией
	CreateInvoiceWithRequests(invoice *ds.Invoice, requestIDs []uint) error
}

// AuditLogger пишет запись журнала. Ошибки записи не должны
// прерывать выставление счетов, реализация гасит их сама.
type AuditLogger interface {
	LogAction(action, entityType string, entityID uint, details interface{}, userLogin string)
}

// CreatedInvoice - краткая сводка по выставленному счету
type CreatedInvoice struct {
	ID             uint    `json:"id"`
	Number         string  `json:"number"`
	ResearcherID   uint    `json:"researcher_id"`
	ResearcherName string  `json:"researcher_name"`
	Amount         float64 `json:"amount"`
	RequestCount   int     `json:"request_count"`
}

// GroupFailure - группа, по которой запись счета не прошла
type GroupFailure struct {
	ResearcherID   uint   `json:"researcher_id"`
	ResearcherName string `json:"researcher_name"`
	Error          string `json:"error"`
}

// Result - итог пакетной генерации: успешные счета, ошибки по группам
// и заявки, исключенные из расчета
type Result struct {
	Invoices []CreatedInvoice `json:"invoices"`
	Failures []GroupFailure   `json:"failures"`
	Skipped  []Skipped        `json:"skipped"`
}

// Generator выполняет пакетную генерацию счетов: группировка заявок,
// выдача номеров, транзакционная запись по каждой группе
type Generator struct {
	store Store
	audit AuditLogger
	cfg   config.BillingConfig
	now   func() time.Time

	// генерации внутри процесса сериализуются: две параллельные выдачи
	// номеров от одного счетчика дали бы дубликаты
	mu sync.Mutex
}

func NewGenerator(store Store, audit AuditLogger, cfg config.BillingConfig) *Generator {
	return &Generator{
		store: store,
		audit: audit,
		cfg:   cfg,
		now:   time.Now,
	}
}

// GenerateInvoices выставляет по одному счету на исследователя по всем
// подлежащим оплате заявкам в диапазоне дат. Операция не атомарна между
// группами: ошибка записи одной группы фиксируется в результате, остальные
// группы обрабатываются дальше.
func (g *Generator) GenerateInvoices(from, to time.Time, actorLogin string) (*Result, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, ErrBadRange
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	requests, err := g.store.ListBillableRequests(from, to)
	if err != nil {
		return nil, err
	}
	researchers, err := g.store.GetResearchersMap()
	if err != nil {
		return nil, err
	}
	services, err := g.store.GetServicesMap()
	if err != nil {
		return nil, err
	}

	groups, skipped := GroupForBilling(requests, researchers, services, from, to)

	now := g.now()
	year := now.Year()
	existing, err := g.store.CountInvoicesForYear(year)
	if err != nil {
		return nil, err
	}

	// порядок обхода групп фиксируем, чтобы номера выдавались предсказуемо
	researcherIDs := make([]uint, 0, len(groups))
	for id := range groups {
		researcherIDs = append(researcherIDs, id)
	}
	sort.Slice(researcherIDs, func(i, j int) bool { return researcherIDs[i] < researcherIDs[j] })

	result := &Result{Skipped: skipped}
	var generated int64

	for _, researcherID := range researcherIDs {
		group := groups[researcherID]
		if len(group.Items) == 0 {
			continue
		}
		if group.Total == 0 && g.cfg.SkipZeroAmountInvoices {
			continue
		}

		amount := Round2(group.Total * (1 + g.cfg.VATRate))

		// счетчик выданных номеров ведем в памяти: повторный запрос в базу
		// до записи предыдущей группы выдал бы дубликат
		invoice := ds.Invoice{
			Number:       NextInvoiceNumber(year, existing+generated),
			ResearcherID: researcherID,
			Amount:       amount,
			Status:       ds.InvoicePending,
			CreatedAt:    now,
		}

		requestIDs := make([]uint, len(group.Items))
		for i, item := range group.Items {
			requestIDs[i] = item.RequestID
		}

		err := g.store.CreateInvoiceWithRequests(&invoice, requestIDs)
		if err != nil && isNumberConflict(err) {
			// номер занят конкурентной генерацией из другого процесса:
			// перечитываем счетчик и пробуем ровно один раз
			fresh, countErr := g.store.CountInvoicesForYear(year)
			if countErr == nil {
				existing = fresh - generated
				invoice.ID = 0
				invoice.Number = NextInvoiceNumber(year, existing+generated)
				err = g.store.CreateInvoiceWithRequests(&invoice, requestIDs)
			}
		}
		if err != nil {
			result.Failures = append(result.Failures, GroupFailure{
				ResearcherID:   researcherID,
				ResearcherName: group.Researcher.FullName,
				Error:          err.Error(),
			})
			continue
		}
		generated++

		if g.audit != nil {
			g.audit.LogAction("CREATE INVOICE", "invoice", invoice.ID, map[string]interface{}{
				"invoice_number": invoice.Number,
				"amount":         invoice.Amount,
				"researcher_id":  researcherID,
			}, actorLogin)
		}

		result.Invoices = append(result.Invoices, CreatedInvoice{
			ID:             invoice.ID,
			Number:         invoice.Number,
			ResearcherID:   researcherID,
			ResearcherName: group.Researcher.FullName,
			Amount:         amount,
			RequestCount:   len(requestIDs),
		})
	}

	return result, nil
}

// isNumberConflict распознает нарушение уникальности номера счета
func isNumberConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(strings.ToUpper(msg), "UNIQUE") && strings.Contains(msg, "number")
}
