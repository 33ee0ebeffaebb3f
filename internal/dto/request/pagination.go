package request

import "venue-booking/pkg/utils"

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"limit"`
}

func (p PaginatedRequest) CurrentPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.CurrentPage(), p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}
