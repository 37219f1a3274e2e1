package opsapi

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParam is a single query string pair.
type QueryParam struct {
	Key   string
	Value string
}

// QueryParams is an ordered multi-map of query parameters. Keys may repeat and
// pairs are encoded in insertion order.
type QueryParams struct {
	params []QueryParam
}

// NewQueryParams creates an empty parameter list.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// Add appends a pair.
func (q *QueryParams) Add(key, value string) *QueryParams {
	q.params = append(q.params, QueryParam{Key: key, Value: value})

	return q
}

// AddInt appends a pair with an integer value.
func (q *QueryParams) AddInt(key string, value int) *QueryParams {
	return q.Add(key, strconv.Itoa(value))
}

// Set replaces every value of key with value, keeping the position of the first
// occurrence. The pair is appended when key is absent.
func (q *QueryParams) Set(key, value string) *QueryParams {
	kept := q.params[:0:0]
	replaced := false

	for _, param := range q.params {
		if param.Key != key {
			kept = append(kept, param)

			continue
		}

		if !replaced {
			kept = append(kept, QueryParam{Key: key, Value: value})
			replaced = true
		}
	}

	if !replaced {
		kept = append(kept, QueryParam{Key: key, Value: value})
	}

	q.params = kept

	return q
}

// Del removes every value of key.
func (q *QueryParams) Del(key string) *QueryParams {
	kept := q.params[:0:0]

	for _, param := range q.params {
		if param.Key != key {
			kept = append(kept, param)
		}
	}

	q.params = kept

	return q
}

// Get returns the first value of key.
func (q *QueryParams) Get(key string) string {
	if q == nil {
		return ""
	}

	for _, param := range q.params {
		if param.Key == key {
			return param.Value
		}
	}

	return ""
}

// Values returns every value of key in order.
func (q *QueryParams) Values(key string) []string {
	if q == nil {
		return nil
	}

	var values []string

	for _, param := range q.params {
		if param.Key == key {
			values = append(values, param.Value)
		}
	}

	return values
}

// Len returns the number of pairs.
func (q *QueryParams) Len() int {
	if q == nil {
		return 0
	}

	return len(q.params)
}

// Params returns a copy of the pairs in order.
func (q *QueryParams) Params() []QueryParam {
	if q == nil {
		return nil
	}

	return append([]QueryParam(nil), q.params...)
}

// Clone returns an independent copy.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	return &QueryParams{params: q.Params()}
}

// Encode renders the pairs as a URL query string in insertion order.
func (q *QueryParams) Encode() string {
	if q.Len() == 0 {
		return ""
	}

	var builder strings.Builder

	for i, param := range q.params {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(url.QueryEscape(param.Key))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(param.Value))
	}

	return builder.String()
}

// ToValues converts the pairs to url.Values. Order across keys is lost.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	for _, param := range q.Params() {
		values.Add(param.Key, param.Value)
	}

	return values
}

// WithPage sets the "page" parameter.
func (q *QueryParams) WithPage(page int) *QueryParams {
	return q.Set("page", strconv.Itoa(page))
}

// WithPageSize sets the "pageSize" parameter.
func (q *QueryParams) WithPageSize(size int) *QueryParams {
	return q.Set("pageSize", strconv.Itoa(size))
}

// WithFilter appends a filter pair. Filters on the same key accumulate.
func (q *QueryParams) WithFilter(key, value string) *QueryParams {
	return q.Add(key, value)
}
