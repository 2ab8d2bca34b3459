package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Page is the wrapper around every paginated listing.
type Page struct {
	Items   interface{} `json:"items"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Total   int64       `json:"total"`
}

// paginationParams reads page/per_page from the query string. per_page is
// clamped to 100 and defaults to 20.
func paginationParams(c *gin.Context) (page, perPage, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage, (page - 1) * perPage
}
