package analytics

import (
	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

// paginate derives the page window descriptor for a result set. The page
// count rounds up, so a final partial page still counts.
func paginate(page, pageSize, totalItems int) domain.Pagination {
	totalPages := (totalItems + pageSize - 1) / pageSize

	return domain.Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// pageOffset converts a one-based page number into a row offset.
func pageOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}
