package models

// Pagination describes one page of a listing
type Pagination struct {
	Current    int  `json:"current"`
	Total      int  `json:"total"`
	Count      int  `json:"count"`
	TotalCount int  `json:"totalCount"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination computes page counters for a page of count items out of totalCount
func NewPagination(page, limit, count, totalCount int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return Pagination{
		Current:    page,
		Total:      totalPages,
		Count:      count,
		TotalCount: totalCount,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
