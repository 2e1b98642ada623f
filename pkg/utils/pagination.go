package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams reads ?page=&limit= or ?offset=&limit= from the request.
// An explicit offset wins over page.
func GetPaginationParams(c echo.Context) PaginationParams {
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err == nil && offset >= 0 {
			return PaginationParams{
				Page:     offset/pageSize + 1,
				PageSize: pageSize,
				Offset:   offset,
			}
		}
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
