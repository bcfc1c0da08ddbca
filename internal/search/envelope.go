// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package search

import (
	"github.com/tomtom215/quarry/internal/sorting"
)

// SearchInfos is the metadata of one result page.
type SearchInfos struct {
	Total   int64          `json:"total"`
	Sort    sorting.Clause `json:"sort,omitempty"`
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
	HasMore bool           `json:"has_more"`
}

// DefaultSearchInfos returns the metadata used when the caller has none.
//
// It is the zero value, so it cannot be told apart from a computed empty
// page at offset 0 with no limit. Callers that need that distinction must
// pass explicit infos to New.
func DefaultSearchInfos() SearchInfos {
	return SearchInfos{}
}

// Envelope pairs result items with their search metadata. Data keeps the
// order the query layer produced.
type Envelope[T any] struct {
	Infos SearchInfos `json:"search_infos"`
	Data  []T         `json:"data"`
}

// New wraps data with explicit metadata. Neither argument is copied or
// altered.
func New[T any](infos SearchInfos, data []T) Envelope[T] {
	return Envelope[T]{Infos: infos, Data: data}
}

// FromData wraps data with DefaultSearchInfos.
func FromData[T any](data []T) Envelope[T] {
	return Envelope[T]{Infos: DefaultSearchInfos(), Data: data}
}

// Len returns the number of items in the page.
func (e Envelope[T]) Len() int {
	return len(e.Data)
}
