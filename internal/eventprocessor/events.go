// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package eventprocessor

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swipewear/internal/models"
)

// ErrInvalidEvent marks a payload that can never be processed. Such
// messages are acknowledged and dropped rather than redelivered.
var ErrInvalidEvent = errors.New("invalid event")

// MarshalSignalEvent encodes a signal event.
func MarshalSignalEvent(event *models.SignalEvent) ([]byte, error) {
	if event == nil || event.EventID == "" {
		return nil, fmt.Errorf("%w: signal event without id", ErrInvalidEvent)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal signal event: %w", err)
	}
	return data, nil
}

// UnmarshalSignalEvent decodes a signal event.
func UnmarshalSignalEvent(data []byte) (*models.SignalEvent, error) {
	var event models.SignalEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if event.EventID == "" || event.UserID == "" || event.ItemID == "" {
		return nil, fmt.Errorf("%w: signal event missing ids", ErrInvalidEvent)
	}
	return &event, nil
}

// MarshalCatalogEvent validates and encodes a catalog event.
func MarshalCatalogEvent(event *models.CatalogEvent) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: nil catalog event", ErrInvalidEvent)
	}
	if err := validateCatalogEvent(event); err != nil {
		return nil, err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog event: %w", err)
	}
	return data, nil
}

// UnmarshalCatalogEvent decodes and validates a catalog event. An upsert
// without item_id takes it from the embedded item.
func UnmarshalCatalogEvent(data []byte) (*models.CatalogEvent, error) {
	var event models.CatalogEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if event.Type == models.CatalogItemUpserted && event.ItemID == "" && event.Item != nil {
		event.ItemID = event.Item.ID
	}
	if err := validateCatalogEvent(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

func validateCatalogEvent(event *models.CatalogEvent) error {
	if event.EventID == "" {
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	}
	if event.ItemID == "" {
		return fmt.Errorf("%w: missing item_id", ErrInvalidEvent)
	}
	switch event.Type {
	case models.CatalogItemUpserted:
		if event.Item == nil {
			return fmt.Errorf("%w: upsert of %s without item", ErrInvalidEvent, event.ItemID)
		}
		if event.Item.ID != event.ItemID {
			return fmt.Errorf("%w: item id %q does not match %q", ErrInvalidEvent, event.Item.ID, event.ItemID)
		}
		if event.Item.Name == "" {
			return fmt.Errorf("%w: item %s has no name", ErrInvalidEvent, event.ItemID)
		}
		for i := range event.Outfits {
			if event.Outfits[i].ID == "" {
				return fmt.Errorf("%w: outfit without id", ErrInvalidEvent)
			}
		}
	case models.CatalogItemDeleted:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
	return nil
}
