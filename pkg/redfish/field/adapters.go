// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package field

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Adapter coerces a raw JSON value into V. Errors surface as malformed
// attribute conditions.
type Adapter[V any] func(raw any) (V, error)

// String accepts JSON strings.
func String(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", raw)
	}
	return s, nil
}

// Int64 accepts integral JSON numbers and numeric strings.
func Int64(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}

// Int is Int64 narrowed to int.
func Int(raw any) (int, error) {
	v, err := Int64(raw)
	return int(v), err
}

// Float accepts JSON numbers and numeric strings.
func Float(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

// Bool accepts JSON booleans and "true"/"false" strings.
func Bool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("expected boolean, got %T", raw)
	}
}

// Strings accepts an array of strings.
func Strings(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: expected string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// Raw keeps the JSON value as decoded.
func Raw(raw any) (any, error) {
	return raw, nil
}

// Object accepts a JSON object.
func Object(raw any) (map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", raw)
	}
	return obj, nil
}

// Link extracts the @odata.id of a reference object.
func Link(raw any) (string, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return "", fmt.Errorf("expected reference object, got %T", raw)
	}
	id, ok := obj["@odata.id"].(string)
	if !ok {
		return "", fmt.Errorf("reference object has no @odata.id")
	}
	return id, nil
}

// Links extracts the @odata.id of every reference in an array.
func Links(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		id, err := Link(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// UUID parses a textual UUID.
func UUID(raw any) (uuid.UUID, error) {
	s, err := String(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(s)
}

// Time parses an RFC 3339 timestamp.
func Time(raw any) (time.Time, error) {
	s, err := String(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}
