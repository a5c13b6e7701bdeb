package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
)

// parseQuery reads the popularity toggle and one equality filter per
// filterable column.
func parseQuery(c *gin.Context) (models.Query, error) {
	includeSmall, err := parseBool(c, "include_small", false)
	if err != nil {
		return models.Query{}, err
	}
	q := models.Query{IncludeSmall: includeSmall, Filters: map[string]string{}}
	for _, col := range services.FilterColumns {
		if v := strings.TrimSpace(c.Query(col)); v != "" {
			q.Filters[col] = v
		}
	}
	return q, nil
}

func parseBool(c *gin.Context, name string, def bool) (bool, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", errBadParam, name, s)
	}
	return b, nil
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
