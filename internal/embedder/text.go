// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package embedder

import (
	"strings"

	"github.com/tomtom215/swipewear/internal/models"
)

// Text builds the string embedded for an item. The coarse embedding uses
// the name alone; the detailed one adds designer, color and categories.
func Text(item *models.Item, detailed bool) string {
	name := strings.TrimSpace(item.Name)
	if !detailed {
		return name
	}

	parts := make([]string, 0, 4)
	if name != "" {
		parts = append(parts, name)
	}
	if d := strings.TrimSpace(item.DesignerName); d != "" {
		parts = append(parts, "by "+d)
	}
	if c := strings.TrimSpace(item.Color); c != "" {
		parts = append(parts, "color "+strings.ToLower(c))
	}
	if len(item.Categories) > 0 {
		cats := make([]string, len(item.Categories))
		for i, cat := range item.Categories {
			cats[i] = strings.ToLower(strings.ReplaceAll(cat, "_", " "))
		}
		parts = append(parts, "categories "+strings.Join(cats, ", "))
	}
	return strings.Join(parts, "; ")
}
