// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package sanitize converts arbitrary application values into plain
// JSON-safe structures before any storage write. Opaque identifier types
// become their string form, timestamps become RFC3339 strings, structs and
// maps become map[string]any, slices map element-wise.
//
// Sanitize is idempotent: every value it emits passes through unchanged on
// a second call. Input is assumed tree-shaped; cyclic values are out of
// scope for the domain data Ladle handles.
package sanitize

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Sanitize returns a JSON-safe copy of v.
func Sanitize(v any) any {
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	// Unwrap interfaces and pointers before kind dispatch.
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	if t, ok := rv.Interface().(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	// Opaque identifier types (uuid.UUID, database ids) reduce to their
	// string form. time.Time is handled above since it is also a Stringer.
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String()
	}

	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.Interface()

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(rv.Bytes())
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out

	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = sanitizeValue(iter.Value())
		}
		return out

	case reflect.Struct:
		return sanitizeStruct(rv)

	default:
		// Funcs, channels and friends have no JSON form. The domain data
		// never contains them, but a stray value must not panic a write.
		return fmt.Sprintf("%v", rv.Interface())
	}
}

// sanitizeStruct flattens a struct into a map keyed by json tag name,
// falling back to the field name. Fields tagged "-" are skipped, and
// omitempty fields holding their zero value are dropped, matching what a
// JSON round-trip would produce.
func sanitizeStruct(rv reflect.Value) map[string]any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		omitempty := false
		if tag, ok := field.Tag.Lookup("json"); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitempty = true
				}
			}
		}

		fv := rv.Field(i)
		if omitempty && fv.IsZero() {
			continue
		}
		out[name] = sanitizeValue(fv)
	}
	return out
}

// mapKey renders a map key as a string, the only key type JSON allows.
func mapKey(rv reflect.Value) string {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", rv.Interface())
}
