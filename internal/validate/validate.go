// Package validate runs named per-field rule chains against incoming
// requests. For each field, rules run in declared order and stop at the
// first failure; fields fail independently, so one request can surface
// several field errors at once. Plain failures aggregate into a single
// apperr.EntityError (422); a rule returning an apperr.ErrorWithStatus
// with any other status code bypasses aggregation and propagates
// verbatim. On success only schema fields survive into the request's
// value set, dropping everything else the client sent.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"userhub/internal/apperr"
)

// Source tells a field where its raw value comes from.
type Source int

const (
	Body Source = iota
	Header
	Param
)

// Request is the mutable validation state for one HTTP request: the
// decoded body, headers and route params on the input side; validated
// values and derived context (decoded tokens, matched user) on the
// output side.
type Request struct {
	body   map[string]any
	header http.Header
	params map[string]string
	values map[string]any
}

// NewRequest decodes the JSON body (an absent or empty body is fine) and
// wraps the request for schema runs.
func NewRequest(r *http.Request) (*Request, error) {
	req := &Request{
		body:   map[string]any{},
		header: r.Header,
		params: map[string]string{},
		values: map[string]any{},
	}

	if r.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, apperr.NewStatus("Invalid JSON body", http.StatusBadRequest)
		}
		if body != nil {
			req.body = body
		}
	}

	return req, nil
}

// SetParam registers a route parameter so Param-sourced fields can see it.
func (r *Request) SetParam(name, value string) {
	r.params[name] = value
}

// Set attaches derived context under a well-known key for downstream
// stages and handlers.
func (r *Request) Set(key string, v any) {
	r.values[key] = v
}

// Value returns a validated value or derived context entry.
func (r *Request) Value(key string) any {
	return r.values[key]
}

// Has reports whether a validated value is present.
func (r *Request) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// String returns a validated value as a string, or "" when absent.
func (r *Request) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// BodyString reads a raw (pre-validation) body field as a string. Custom
// rules use it to look at sibling fields, e.g. confirm_password.
func (r *Request) BodyString(name string) string {
	s, _ := r.body[name].(string)
	return s
}

func (r *Request) lookup(src Source, name string) (any, bool) {
	switch src {
	case Body:
		v, ok := r.body[name]
		return v, ok
	case Header:
		vals := r.header.Values(name)
		if len(vals) == 0 {
			return nil, false
		}
		return vals[0], true
	case Param:
		v, ok := r.params[name]
		return v, ok
	default:
		return nil, false
	}
}

// Value is the raw field value a rule chain operates on. Rules may
// transform Raw (Trim does).
type Value struct {
	Name    string
	Raw     any
	Present bool
}

// Str returns the value as a string, or "" when it is absent or not a
// string.
func (v *Value) Str() string {
	s, _ := v.Raw.(string)
	return s
}

// Rule checks or transforms one field value. Returning an
// apperr.ErrorWithStatus with a non-422 code makes the failure propagate
// verbatim instead of joining the field-error aggregate.
type Rule func(ctx context.Context, req *Request, v *Value) error

// Field is one named rule chain.
type Field struct {
	Name     string
	Source   Source
	Optional bool // absent field skips the chain entirely
	Rules    []Rule
}

// Forbidden declares a field the client must not send at all.
func Forbidden(name, msg string) Field {
	return Field{Name: name, Optional: true, Rules: []Rule{NotAllowed(msg)}}
}

// Schema is an ordered set of field chains.
type Schema struct {
	fields []Field
}

func NewSchema(fields ...Field) *Schema {
	return &Schema{fields: fields}
}

// Run executes every field chain. It returns nil, a pass-through
// ErrorWithStatus, or the aggregated EntityError.
func (s *Schema) Run(ctx context.Context, req *Request) error {
	fieldErrs := apperr.Errors{}
	var passThrough *apperr.ErrorWithStatus

	for _, f := range s.fields {
		raw, present := req.lookup(f.Source, f.Name)
		if !present && f.Optional {
			continue
		}

		v := &Value{Name: f.Name, Raw: raw, Present: present}
		failed := false

		for _, rule := range f.Rules {
			err := rule(ctx, req, v)
			if err == nil {
				continue
			}
			failed = true

			var statusErr *apperr.ErrorWithStatus
			if errors.As(err, &statusErr) && statusErr.StatusCode != http.StatusUnprocessableEntity {
				if statusErr.Path == "" {
					statusErr.Path = f.Name
				}
				if passThrough == nil {
					passThrough = statusErr
				}
			} else {
				fieldErrs[f.Name] = apperr.FieldError{Msg: err.Error()}
			}
			break
		}

		if !failed && present {
			req.values[f.Name] = v.Raw
		}
	}

	if passThrough != nil {
		return passThrough
	}
	if len(fieldErrs) > 0 {
		return apperr.NewEntityError(fieldErrs)
	}
	return nil
}
