package api

import (
	"fmt"
	"net/url"
	"reflect"
)

// Params holds query parameters for GET requests. A value that is nil, a nil
// pointer, or an empty string is treated as absent and never sent. Zero
// numbers and false are real values and are sent.
type Params map[string]any

// Set stores value under key and returns p for chaining.
func (p Params) Set(key string, value any) Params {
	p[key] = value
	return p
}

// Values returns the params that survive the absent/empty filter.
func (p Params) Values() url.Values {
	values := url.Values{}
	for key, raw := range p {
		text, ok := paramText(raw)
		if !ok {
			continue
		}
		values.Add(key, text)
	}
	return values
}

// Encode renders the query string, sorted by key. Empty when nothing survives.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	return p.Values().Encode()
}

func paramText(raw any) (string, bool) {
	if raw == nil {
		return "", false
	}
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		text := rv.String()
		return text, text != ""
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		text := s.String()
		return text, text != ""
	}
	return fmt.Sprint(rv.Interface()), true
}
