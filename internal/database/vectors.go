// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeVector renders v as a DuckDB list literal bound through
// CAST(? AS FLOAT[]). An empty vector binds NULL.
func encodeVector(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	var b strings.Builder
	b.Grow(len(v) * 10)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// decodeVector converts a scanned FLOAT[] value. The driver returns LIST
// columns as []any.
func decodeVector(v any) ([]float32, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []float32:
		return list, nil
	case []any:
		out := make([]float32, len(list))
		for i, el := range list {
			switch f := el.(type) {
			case float32:
				out[i] = f
			case float64:
				out[i] = float32(f)
			default:
				return nil, fmt.Errorf("vector element %d has type %T", i, el)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected vector type %T", v)
	}
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
