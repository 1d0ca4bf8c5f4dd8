// Package recordstore defines the generic record CRUD contract the
// storefront persists through: named tables of loosely typed records,
// fetched by filter, created and updated in batches, deleted by id.
// Implementations live in the http, postgres, and memory subpackages.
package recordstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one row of a table, keyed by backend field name. The store-
// assigned identifier is carried under the "Id" key.
type Record map[string]any

// ID returns the record's store-assigned identifier, or 0 when absent.
func (r Record) ID() int {
	switch v := r["Id"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		id, _ := strconv.Atoi(v)
		return id
	}
	return 0
}

// String returns the named field as a string, or "" when absent.
func (r Record) String(field string) string {
	if v, ok := r[field]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// Float returns the named field as a float64 and whether it was present
// and numeric.
func (r Record) Float(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Int returns the named field as an int, or 0 when absent.
func (r Record) Int(field string) int {
	f, _ := r.Float(field)
	return int(f)
}

// Filter operators understood by ApplyQuery.
const (
	OpEqualTo              = "EqualTo"
	OpNotEqualTo           = "NotEqualTo"
	OpContains             = "Contains"
	OpGreaterThanOrEqualTo = "GreaterThanOrEqualTo"
	OpLessThanOrEqualTo    = "LessThanOrEqualTo"
)

// Filter is one where-clause condition. A record matches when its field
// satisfies the operator against any of the values.
type Filter struct {
	FieldName string   `json:"field_name"`
	Operator  string   `json:"operator"`
	Values    []string `json:"values"`
}

// Sort directions.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Sort orders results by one field.
type Sort struct {
	FieldName string `json:"field_name"`
	SortType  string `json:"sort_type"`
}

// Query selects, filters, orders, and truncates records of a table.
type Query struct {
	Fields  []string `json:"fields,omitempty"`
	Where   []Filter `json:"where,omitempty"`
	OrderBy []Sort   `json:"order_by,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}

// Store is the record CRUD contract. Create and Update operate on batches
// and return the persisted records including store-assigned identifiers.
type Store interface {
	Fetch(ctx context.Context, table string, query Query) ([]Record, error)
	GetByID(ctx context.Context, table string, id int) (Record, error)
	Create(ctx context.Context, table string, records []Record) ([]Record, error)
	Update(ctx context.Context, table string, records []Record) ([]Record, error)
	Delete(ctx context.Context, table string, ids []int) error
}

// ApplyQuery evaluates a query against in-process records. The postgres and
// memory stores share it so filter semantics match the remote backend.
func ApplyQuery(records []Record, query Query) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if matchesAll(rec, query.Where) {
			out = append(out, rec)
		}
	}

	if len(query.OrderBy) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, s := range query.OrderBy {
				c := compareValues(out[i][s.FieldName], out[j][s.FieldName])
				if c == 0 {
					continue
				}
				if strings.EqualFold(s.SortType, SortDesc) {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if query.Offset > 0 {
		if query.Offset >= len(out) {
			return []Record{}
		}
		out = out[query.Offset:]
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}

	if len(query.Fields) > 0 {
		projected := make([]Record, len(out))
		for i, rec := range out {
			p := Record{"Id": rec["Id"]}
			for _, f := range query.Fields {
				if v, ok := rec[f]; ok {
					p[f] = v
				}
			}
			projected[i] = p
		}
		out = projected
	}

	return out
}

func matchesAll(rec Record, filters []Filter) bool {
	for _, f := range filters {
		if !matches(rec, f) {
			return false
		}
	}
	return true
}

func matches(rec Record, f Filter) bool {
	field := rec[f.FieldName]
	for _, want := range f.Values {
		switch f.Operator {
		case OpEqualTo:
			if compareValues(field, want) == 0 {
				return true
			}
		case OpNotEqualTo:
			if compareValues(field, want) != 0 {
				return true
			}
		case OpContains:
			if strings.Contains(
				strings.ToLower(fmt.Sprint(field)),
				strings.ToLower(want),
			) {
				return true
			}
		case OpGreaterThanOrEqualTo:
			if compareValues(field, want) >= 0 {
				return true
			}
		case OpLessThanOrEqualTo:
			if compareValues(field, want) <= 0 {
				return true
			}
		}
	}
	return false
}

// compareValues orders two loosely typed values, numerically when both
// parse as numbers and lexically otherwise. nil sorts before everything.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(as, bs)
}
