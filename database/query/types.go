// Package query turns request parameters into filtered, sorted and paged
// GORM queries. Filters use the field=op.value form, e.g. key=in.(color,size)
// or owner_type=neq.gadget.
package query

import "slices"

// Page size bounds applied to every query.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Operator is a filter comparison.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpIn      Operator = "in"
	OpNin     Operator = "nin"
	OpLike    Operator = "like"
	OpIlike   Operator = "ilike"
	OpNull    Operator = "null"
	OpNotNull Operator = "notNull"
)

var operators = []Operator{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpLike, OpIlike, OpNull, OpNotNull}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	return slices.Contains(operators, o)
}

// Condition filters one column.
type Condition struct {
	Field    string
	Operator Operator
	Value    string
	Values   []string // in, nin
}

// list returns the values of a set operator. A bare Value is read as a
// comma separated list.
func (c Condition) list() []string {
	if len(c.Values) > 0 || c.Value == "" {
		return c.Values
	}
	if c.Operator == OpIn || c.Operator == OpNin {
		return splitList(c.Value)
	}
	return nil
}

// Params is one parsed search request.
type Params struct {
	Page       int
	PageSize   int
	All        bool // return every row on one page
	SortBy     string
	Desc       bool
	Search     string
	Conditions []Condition
}

// DefaultParams returns the first page with the default page size.
func DefaultParams() Params {
	return Params{Page: 1, PageSize: DefaultPageSize}
}

// Where appends a condition.
func (p *Params) Where(field string, op Operator, value string) *Params {
	p.Conditions = append(p.Conditions, Condition{Field: field, Operator: op, Value: value})
	return p
}

// Pagination describes the returned page.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Result is one page of rows plus per-value counts of the facet columns.
type Result[T any] struct {
	Data       []T                       `json:"data"`
	Pagination Pagination                `json:"pagination"`
	Facets     map[string]map[string]int `json:"facets,omitempty"`
}

// Config lists the columns a model exposes. Only columns named here ever
// reach SQL.
type Config struct {
	SearchFields []string
	Filters      []string
	Sorts        []string
	DefaultSort  string
	Facets       []string
}

func (c Config) filterable(field string) bool { return slices.Contains(c.Filters, field) }

func (c Config) sortable(field string) bool { return slices.Contains(c.Sorts, field) }
