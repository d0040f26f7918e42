// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package catalogimport

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

// Mapper validates records and converts them to catalog events.
type Mapper struct {
	source string
}

// NewMapper creates a mapper.
func NewMapper() *Mapper {
	return &Mapper{source: "catalog-import"}
}

// ToCatalogEvent converts a record to an upsert event. The event id is
// derived from the line content so re-importing an unchanged line yields
// the same id and is dropped by consumer deduplication.
func (m *Mapper) ToCatalogEvent(rec *Record) *models.CatalogEvent {
	item := rec.Item
	return &models.CatalogEvent{
		EventID: m.eventID(rec).String(),
		Type:    models.CatalogItemUpserted,
		ItemID:  item.ID,
		Item:    &item,
		Outfits: rec.Outfits,
	}
}

// eventID hashes the source tag, item id and raw line into a UUID.
func (m *Mapper) eventID(rec *Record) uuid.UUID {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%s:", m.source, rec.Item.ID)
	h.Write(rec.Raw)
	sum := h.Sum(nil)

	id, err := uuid.FromBytes(sum[:16])
	if err != nil {
		return uuid.New()
	}
	id[6] = (id[6] & 0x0f) | 0x50 // Version 5
	id[8] = (id[8] & 0x3f) | 0x80 // Variant 10
	return id
}

// ValidateRecord checks that a record can be imported.
func (m *Mapper) ValidateRecord(rec *Record) error {
	if rec.Err != nil {
		return rec.Err
	}
	if strings.TrimSpace(rec.Item.ID) == "" {
		return errors.New("missing id")
	}
	if strings.TrimSpace(rec.Item.Name) == "" {
		return fmt.Errorf("item %s: missing name", rec.Item.ID)
	}
	for _, c := range rec.Item.Categories {
		if !feed.ValidCategoryID(c) {
			return fmt.Errorf("item %s: invalid category %q", rec.Item.ID, c)
		}
	}
	for _, o := range rec.Outfits {
		if strings.TrimSpace(o.ID) == "" {
			return fmt.Errorf("item %s: outfit without id", rec.Item.ID)
		}
	}
	return nil
}

// FilterValidRecords splits records into valid ones and a skip count. fn,
// when set, is called for every rejected record.
func (m *Mapper) FilterValidRecords(records []Record, fn func(rec *Record, err error)) (valid []Record, skipped int) {
	for i := range records {
		if err := m.ValidateRecord(&records[i]); err != nil {
			skipped++
			if fn != nil {
				fn(&records[i], err)
			}
			continue
		}
		valid = append(valid, records[i])
	}
	return valid, skipped
}
