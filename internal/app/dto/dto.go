package dto

import "time"

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Услуги (Lab Services) ============

type ServiceResponse struct {
	ID     uint     `json:"id"`
	Name   string   `json:"name"`
	PriceA *float64 `json:"price_a"`
	PriceB *float64 `json:"price_b"`
	PriceC *float64 `json:"price_c"`
	Format string   `json:"format"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

type CreateServiceRequest struct {
	Name   string   `json:"name" binding:"required"`
	PriceA *float64 `json:"price_a" binding:"omitempty,gte=0"`
	PriceB *float64 `json:"price_b" binding:"omitempty,gte=0"`
	PriceC *float64 `json:"price_c" binding:"omitempty,gte=0"`
	Format string   `json:"format"`
}

type UpdateServiceRequest struct {
	Name   string   `json:"name"`
	PriceA *float64 `json:"price_a" binding:"omitempty,gte=0"`
	PriceB *float64 `json:"price_b" binding:"omitempty,gte=0"`
	PriceC *float64 `json:"price_c" binding:"omitempty,gte=0"`
	Format string   `json:"format"`
}

// ============ Исследователи (Researchers) ============

type ResearcherResponse struct {
	ID       uint    `json:"id"`
	FullName string  `json:"full_name"`
	Center   string  `json:"center"`
	Tariff   *string `json:"tariff"` // A, B, C или null
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	FiscalID string  `json:"fiscal_id"`
}

type ResearcherListResponse struct {
	Researchers []ResearcherResponse `json:"researchers"`
	Total       int                  `json:"total"`
}

type CreateResearcherRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Center   string  `json:"center"`
	Tariff   *string `json:"tariff" binding:"omitempty,oneof=A B C"`
	Email    string  `json:"email" binding:"omitempty,email"`
	Phone    string  `json:"phone"`
	FiscalID string  `json:"fiscal_id"`
}

type UpdateResearcherRequest struct {
	FullName string  `json:"full_name"`
	Center   string  `json:"center"`
	Tariff   *string `json:"tariff" binding:"omitempty,oneof=A B C"`
	Email    string  `json:"email" binding:"omitempty,email"`
	Phone    string  `json:"phone"`
	FiscalID string  `json:"fiscal_id"`
}

// ============ Заявки (Analysis Requests) ============

type RequestResponse struct {
	ID                 uint      `json:"id"`
	RegistrationNumber string    `json:"registration_number"`
	EntryDate          time.Time `json:"entry_date"`
	ResearcherID       uint      `json:"researcher_id"`
	ResearcherName     string    `json:"researcher_name,omitempty"`
	ServiceID          uint      `json:"service_id"`
	ServiceName        string    `json:"service_name,omitempty"`
	SamplesCount       int       `json:"samples_count"`
	FinalSamplesCount  *int      `json:"final_samples_count"`
	Status             string    `json:"status"`
	InvoiceID          *uint     `json:"invoice_id"`
	CreatedAt          time.Time `json:"created_at"`
}

type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int               `json:"total"`
}

type CreateRequestRequest struct {
	ResearcherID uint   `json:"researcher_id" binding:"required"`
	ServiceID    uint   `json:"service_id" binding:"required"`
	SamplesCount int    `json:"samples_count" binding:"omitempty,gte=1"`
	EntryDate    string `json:"entry_date"` // формат 2006-01-02, по умолчанию сегодня
}

type UpdateRequestCountsRequest struct {
	SamplesCount      *int `json:"samples_count" binding:"omitempty,gte=1"`
	FinalSamplesCount *int `json:"final_samples_count" binding:"omitempty,gte=0"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ============ Счета (Invoices) ============

type InvoiceResponse struct {
	ID             uint      `json:"id"`
	Number         string    `json:"number"`
	ResearcherID   uint      `json:"researcher_id"`
	ResearcherName string    `json:"researcher_name,omitempty"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`

	Requests []RequestResponse `json:"requests,omitempty"` // Только для GET одного счета
}

type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
}

type GenerateInvoicesRequest struct {
	DateFrom string `json:"date_from" binding:"required"` // формат 2006-01-02
	DateTo   string `json:"date_to" binding:"required"`
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID           uint   `json:"id"`
	Login        string `json:"login"`
	FullName     string `json:"full_name"`
	Role         int    `json:"role"`
	ResearcherID *uint  `json:"researcher_id,omitempty"`
}

type RegisterRequest struct {
	Login        string `json:"login" binding:"required,min=3,max=50"`
	Password     string `json:"password" binding:"required,min=6"`
	FullName     string `json:"full_name" binding:"required"`
	Role         int    `json:"role" binding:"omitempty,gte=0,lte=2"`
	ResearcherID *uint  `json:"researcher_id"` // привязка к исследователю для роли 0
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
