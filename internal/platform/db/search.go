package db

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

// ParamType defines how a search parameter is matched against its column.
type ParamType int

const (
	ParamExact  ParamType = iota // exact equality on the column
	ParamText                    // case-insensitive prefix match
	ParamNumber                  // numeric match with gt/ge/lt/le prefixes
	ParamDate                    // date match with gt/ge/lt/le prefixes
)

// ParamConfig maps a search parameter name to its database column.
type ParamConfig struct {
	Type   ParamType
	Column string
}

// SearchQuery builds SQL WHERE clauses from request query parameters.
// It encapsulates the filtered-list pattern shared by the domain
// repositories.
type SearchQuery struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewSearchQuery creates a new SearchQuery for the given table and columns.
func NewSearchQuery(table, cols string) *SearchQuery {
	return &SearchQuery{
		table: table,
		cols:  cols,
		idx:   1,
	}
}

// Add appends a raw WHERE clause fragment (without leading "AND").
func (q *SearchQuery) Add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// Idx returns the next available parameter index.
func (q *SearchQuery) Idx() int { return q.idx }

// ApplyParam applies a single search parameter using the config.
func (q *SearchQuery) ApplyParam(config ParamConfig, value string) {
	switch config.Type {
	case ParamText:
		q.where += fmt.Sprintf(" AND %s ILIKE $%d", config.Column, q.idx)
		q.args = append(q.args, value+"%")
		q.idx++
	case ParamNumber, ParamDate:
		op, v := comparisonPrefix(value)
		q.where += fmt.Sprintf(" AND %s %s $%d", config.Column, op, q.idx)
		q.args = append(q.args, v)
		q.idx++
	default:
		q.where += fmt.Sprintf(" AND %s = $%d", config.Column, q.idx)
		q.args = append(q.args, value)
		q.idx++
	}
}

// ApplyParams applies all matching search parameters from the given map.
// Parameters without a config entry are ignored.
func (q *SearchQuery) ApplyParams(params map[string]string, configs map[string]ParamConfig) {
	for name, value := range params {
		if config, ok := configs[name]; ok {
			q.ApplyParam(config, value)
		}
	}
}

// comparisonPrefix splits an optional gt/ge/lt/le prefix from a value,
// returning the SQL operator and the remaining value.
func comparisonPrefix(value string) (string, string) {
	switch {
	case strings.HasPrefix(value, "gt"):
		return ">", value[2:]
	case strings.HasPrefix(value, "ge"):
		return ">=", value[2:]
	case strings.HasPrefix(value, "lt"):
		return "<", value[2:]
	case strings.HasPrefix(value, "le"):
		return "<=", value[2:]
	default:
		return "=", value
	}
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *SearchQuery) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// ApplySort processes a sort parameter and sets ORDER BY using config column
// mappings. The value is a comma-separated list of param names, each
// optionally prefixed with - for descending order. Falls back to
// defaultOrder when the parameter is empty or names no known columns.
func (q *SearchQuery) ApplySort(sortParam, defaultOrder string, configs map[string]ParamConfig) {
	if sortParam == "" {
		q.orderBy = defaultOrder
		return
	}
	var parts []string
	for _, field := range strings.Split(sortParam, ",") {
		field = strings.TrimSpace(field)
		desc := false
		if strings.HasPrefix(field, "-") {
			desc = true
			field = field[1:]
		}
		if config, ok := configs[field]; ok {
			if desc {
				parts = append(parts, config.Column+" DESC")
			} else {
				parts = append(parts, config.Column+" ASC")
			}
		}
	}
	if len(parts) > 0 {
		q.orderBy = strings.Join(parts, ", ")
	} else {
		q.orderBy = defaultOrder
	}
}

// CountSQL returns the count query SQL.
func (q *SearchQuery) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.table, q.where)
}

// CountArgs returns the arguments for the count query.
func (q *SearchQuery) CountArgs() []interface{} {
	return q.args
}

// DataSQL returns the data query SQL with ORDER BY and LIMIT/OFFSET.
func (q *SearchQuery) DataSQL(limit, offset int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// DataArgs returns the arguments for the data query (search args + limit + offset).
func (q *SearchQuery) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

// ExtractSearchParams extracts search parameters from the query string,
// excluding control parameters (limit, offset, sort). Unknown params are
// included and ignored by the repo's ApplyParams.
func ExtractSearchParams(c echo.Context) map[string]string {
	params := map[string]string{}
	for k, v := range c.QueryParams() {
		if len(v) == 0 || k == "limit" || k == "offset" || k == "sort" {
			continue
		}
		params[k] = v[0]
	}
	return params
}
