package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/pkg/pagination"
)

// parseID parses a UUID path parameter; the bool is false when it is malformed
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseDate parses a YYYY-MM-DD query value, nil when absent
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

// paginate wraps a list result in the standard paginated envelope
func paginate[T any](items []T, params *pagination.PaginationParams, total int64) *pagination.PaginatedResult[T] {
	return pagination.NewPaginatedResult(items,
		pagination.NewPagination(params.Page, params.PerPage, total))
}
