package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Parse reads Params from request values:
//
//	page=2&pageSize=50&sortBy=key&order=desc&search=blu
//	owner_type=eq.widget&filter=key=in.(color,size)
//
// Filters come either as top-level keys or "&"-joined inside one "filter"
// value. Fields missing from cfg.Filters are dropped. pageSize (or limit)
// of "all" or "-1" disables paging.
func Parse(values url.Values, cfg Config) Params {
	p := DefaultParams()
	p.Page = positive(values.Get("page"), 1)
	p.SortBy = values.Get("sortBy")
	p.Desc = strings.EqualFold(values.Get("order"), "desc")
	p.Search = strings.TrimSpace(values.Get("search"))

	size := values.Get("pageSize")
	if size == "" {
		size = values.Get("limit")
	}
	switch size {
	case "", "0":
	case "all", "-1":
		p.All = true
	default:
		p.PageSize = min(positive(size, DefaultPageSize), MaxPageSize)
	}

	if raw := values.Get("filter"); raw != "" {
		for _, part := range strings.Split(raw, "&") {
			field, value, ok := strings.Cut(part, "=")
			if ok && cfg.filterable(field) {
				p.Conditions = append(p.Conditions, parseCondition(field, value))
			}
		}
	}
	for _, field := range cfg.Filters {
		if value := values.Get(field); value != "" {
			p.Conditions = append(p.Conditions, parseCondition(field, value))
		}
	}
	return p
}

// parseCondition reads "op.value", "op.(a,b)", "is.null" or "not.is.null".
// Anything without a known operator prefix is an equality on the raw value.
func parseCondition(field, value string) Condition {
	switch value {
	case "is.null":
		return Condition{Field: field, Operator: OpNull}
	case "not.is.null":
		return Condition{Field: field, Operator: OpNotNull}
	}

	prefix, rest, ok := strings.Cut(value, ".")
	op := Operator(prefix)
	if !ok || !op.Valid() {
		return Condition{Field: field, Operator: OpEq, Value: value}
	}
	if inner, ok := strings.CutPrefix(rest, "("); ok {
		if inner, ok = strings.CutSuffix(inner, ")"); ok {
			return Condition{Field: field, Operator: op, Values: splitList(inner)}
		}
	}
	return Condition{Field: field, Operator: op, Value: unescape(rest)}
}

// splitList splits on unescaped commas, trims items and drops empty ones.
func splitList(s string) []string {
	var (
		out  []string
		item strings.Builder
	)
	flush := func() {
		if v := strings.TrimSpace(item.String()); v != "" {
			out = append(out, v)
		}
		item.Reset()
	}
	walk(s, func(ch rune, escaped bool) {
		if ch == ',' && !escaped {
			flush()
			return
		}
		item.WriteRune(ch)
	})
	flush()
	return out
}

// unescape drops the backslash in front of escaped characters.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	walk(s, func(ch rune, _ bool) { b.WriteRune(ch) })
	return b.String()
}

func walk(s string, fn func(ch rune, escaped bool)) {
	escaped := false
	for _, ch := range s {
		switch {
		case escaped:
			fn(ch, true)
			escaped = false
		case ch == '\\':
			escaped = true
		default:
			fn(ch, false)
		}
	}
}

func positive(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
