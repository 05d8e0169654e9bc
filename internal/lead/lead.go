// AngelaMos | 2026
// lead.go

package lead

import (
	"time"
)

const StatusNew = "new"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Lead struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Company   *string   `db:"company"`
	Message   *string   `db:"message"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type CreateRequest struct {
	Name    string `json:"name"    validate:"required,max=120"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Phone   string `json:"phone"   validate:"required,min=7,max=32"`
	Company string `json:"company" validate:"omitempty,max=160"`
	Message string `json:"message" validate:"omitempty,max=4000"`
}

type ListParams struct {
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type LeadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   *string   `json:"company,omitempty"`
	Message   *string   `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func ToLeadResponse(l *Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Company:   l.Company,
		Message:   l.Message,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
	}
}

func ToLeadResponseList(leads []Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = ToLeadResponse(&leads[i])
	}
	return out
}
