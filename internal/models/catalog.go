// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package models

import "time"

// Item is a catalog entry.
//
// Embedding is the coarse vector over the short description and
// DetailedEmbedding the optional vector over description, attributes and
// categories. Either may be nil. An item without the configured embedding is
// never returned by similarity retrieval.
//
// Seq is the insertion sequence assigned by the catalog store. It is the
// stable catalog order used to break distance ties.
type Item struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ImageURLSuffix    string    `json:"image_url_suffix,omitempty"`
	ProductDetailURL  string    `json:"product_detail_url,omitempty"`
	DesignerName      string    `json:"designer_name,omitempty"`
	Price             string    `json:"price,omitempty"`
	Color             string    `json:"color,omitempty"`
	Categories        []string  `json:"categories"`
	Embedding         []float32 `json:"embedding,omitempty"`
	DetailedEmbedding []float32 `json:"detailed_embedding,omitempty"`
	Seq               int64     `json:"-"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// Summary projects the item onto the fields returned by feed endpoints.
func (i *Item) Summary() ItemSummary {
	cats := i.Categories
	if cats == nil {
		cats = []string{}
	}
	return ItemSummary{
		ID:             i.ID,
		Name:           i.Name,
		ImageURLSuffix: i.ImageURLSuffix,
		Categories:     cats,
	}
}

// ItemSummary is the feed card shown to clients.
type ItemSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ImageURLSuffix string   `json:"image_url_suffix,omitempty"`
	Categories     []string `json:"categories"`
}

// Category groups items. Membership is many-to-many.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

// Outfit is a curated set of catalog items.
type Outfit struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	ItemIDs []string `json:"item_ids"`
}

// User is the minimal identity the feed engine needs to resolve.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
