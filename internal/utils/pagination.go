package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListParams holds limit/skip values parsed from the query string.
// A value below zero means the parameter was absent or not numeric and no
// limit/skip is applied.
type ListParams struct {
	Limit int
	Skip  int
}

// GetListParams parses limit and skip permissively: a missing or
// non-numeric value passes through as "no limit"/"no skip" rather than an
// error.
func GetListParams(c *gin.Context) ListParams {
	params := ListParams{Limit: -1, Skip: -1}

	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v >= 0 {
		params.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("skip")); err == nil && v >= 0 {
		params.Skip = v
	}

	return params
}
