package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Find runs params against db, which must already be scoped to T's model,
// and returns one page of T.
func Find[T any](db *gorm.DB, params Params, cfg Config) (*Result[T], error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = DefaultPageSize
	}
	params.PageSize = min(params.PageSize, MaxPageSize)

	q := Filter(db.Session(&gorm.Session{}), params.Conditions, cfg)
	if params.Search != "" && len(cfg.SearchFields) > 0 {
		q = q.Where(search(params.Search, cfg.SearchFields))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	facets, err := Facets(db, params.Conditions, cfg)
	if err != nil {
		return nil, err
	}

	q = q.Order(order(params, cfg))
	if !params.All {
		q = q.Offset((params.Page - 1) * params.PageSize).Limit(params.PageSize)
	}

	var data []T
	if err := q.Find(&data).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	page := Pagination{Page: params.Page, PageSize: params.PageSize, Total: int(total), TotalPages: 1}
	if params.All {
		page.PageSize = int(total)
	} else if n := (page.Total + params.PageSize - 1) / params.PageSize; n > 1 {
		page.TotalPages = n
	}
	return &Result[T]{Data: data, Pagination: page, Facets: facets}, nil
}

// Filter applies every condition whose field is filterable in cfg.
func Filter(db *gorm.DB, conditions []Condition, cfg Config) *gorm.DB {
	for _, c := range conditions {
		if !cfg.filterable(c.Field) {
			continue
		}
		if expr := condition(c); expr != nil {
			db = db.Where(expr)
		}
	}
	return db
}

// Facets counts rows per distinct value of each facet column. A facet
// ignores conditions on its own column so that picking one value keeps the
// others visible. "_total" holds the facet's row count.
func Facets(db *gorm.DB, conditions []Condition, cfg Config) (map[string]map[string]int, error) {
	if len(cfg.Facets) == 0 {
		return nil, nil
	}

	type bucket struct {
		Value string
		Count int
	}
	out := make(map[string]map[string]int, len(cfg.Facets))
	for _, field := range cfg.Facets {
		var rest []Condition
		for _, c := range conditions {
			if c.Field != field {
				rest = append(rest, c)
			}
		}

		col := clause.Column{Name: field}
		var buckets []bucket
		err := Filter(db.Session(&gorm.Session{}), rest, cfg).
			Select("? AS value, COUNT(*) AS count", col).
			Clauses(clause.GroupBy{Columns: []clause.Column{col}}).
			Scan(&buckets).Error
		if err != nil {
			return nil, fmt.Errorf("facet %s: %w", field, err)
		}

		counts := map[string]int{"_total": 0}
		for _, b := range buckets {
			counts[b.Value] = b.Count
			counts["_total"] += b.Count
		}
		out[field] = counts
	}
	return out, nil
}

func condition(c Condition) clause.Expression {
	col := clause.Column{Name: c.Field}
	list := c.list()

	switch c.Operator {
	case OpEq, OpIn:
		if len(list) > 0 {
			return clause.IN{Column: col, Values: anySlice(list)}
		}
		if c.Operator == OpEq {
			return clause.Eq{Column: col, Value: c.Value}
		}
	case OpNeq, OpNin:
		if len(list) > 0 {
			return clause.Not(clause.IN{Column: col, Values: anySlice(list)})
		}
		if c.Operator == OpNeq {
			return clause.Neq{Column: col, Value: c.Value}
		}
	case OpGt:
		return clause.Gt{Column: col, Value: c.Value}
	case OpGte:
		return clause.Gte{Column: col, Value: c.Value}
	case OpLt:
		return clause.Lt{Column: col, Value: c.Value}
	case OpLte:
		return clause.Lte{Column: col, Value: c.Value}
	case OpLike:
		return clause.Like{Column: col, Value: "%" + c.Value + "%"}
	case OpIlike:
		return lowerLike(col, "%"+strings.ToLower(c.Value)+"%")
	case OpNull:
		return clause.Eq{Column: col, Value: nil}
	case OpNotNull:
		return clause.Neq{Column: col, Value: nil}
	}
	return nil
}

func search(text string, fields []string) clause.Expression {
	pattern := "%" + strings.ToLower(text) + "%"
	exprs := make([]clause.Expression, 0, len(fields))
	for _, f := range fields {
		exprs = append(exprs, lowerLike(clause.Column{Name: f}, pattern))
	}
	return clause.Or(exprs...)
}

func lowerLike(col clause.Column, pattern string) clause.Expression {
	return clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []interface{}{col, pattern}}
}

func order(p Params, cfg Config) clause.OrderByColumn {
	field := cfg.DefaultSort
	desc := false
	if p.SortBy != "" && cfg.sortable(p.SortBy) {
		field, desc = p.SortBy, p.Desc
	}
	if field == "" {
		field = "id"
	}
	return clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc}
}

func anySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
