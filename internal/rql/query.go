// Package rql compiles listing filters into resource query language strings
// understood by the platform's collection endpoints.
package rql

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filters maps a field to one value (equality) or several (membership).
type Filters map[string][]string

// Query is an ordered conjunction of expressions.
type Query struct {
	exprs []string
	limit int
}

func New() *Query {
	return &Query{}
}

// FromFilters builds a query with keys in lexicographic order so equal
// filter sets always compile to the same string.
func FromFilters(f Filters) *Query {
	q := New()
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		values := f[k]
		switch len(values) {
		case 0:
			continue
		case 1:
			q.Equal(k, values[0])
		default:
			q.In(k, values...)
		}
	}
	return q
}

func (q *Query) Equal(key, value string) *Query {
	q.exprs = append(q.exprs, "eq("+key+","+escape(value)+")")
	return q
}

// In adds a membership test. An empty value set is ignored.
func (q *Query) In(key string, values ...string) *Query {
	if len(values) == 0 {
		return q
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escape(v)
	}
	q.exprs = append(q.exprs, "in("+key+",("+strings.Join(escaped, ",")+"))")
	return q
}

// Clone returns an independent copy. Cloning nil yields an empty query.
func (q *Query) Clone() *Query {
	if q == nil {
		return New()
	}
	return &Query{exprs: append([]string(nil), q.exprs...), limit: q.limit}
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) Empty() bool {
	return q == nil || (len(q.exprs) == 0 && q.limit == 0)
}

// Compile renders the query with its leading '?', or "" when empty.
func (q *Query) Compile() string {
	if q.Empty() {
		return ""
	}
	parts := append([]string(nil), q.exprs...)
	if q.limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(q.limit))
	}
	return "?" + strings.Join(parts, "&")
}

func (q *Query) String() string {
	return q.Compile()
}

func escape(v string) string {
	return url.QueryEscape(v)
}
