// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package models

import "time"

// QueryType distinguishes logged query kinds.
type QueryType string

const (
	QueryTypeRecommendation QueryType = "recommendation"
	QueryTypeSuggestion     QueryType = "suggestion"
)

// QueryRecord is one query as reported by the controller.
type QueryRecord struct {
	Query      string
	Type       QueryType
	NumResults int
	Success    bool

	// Source is the recommendation source, or the error kind on failure.
	Source string
}

// QueryLogEntry is a stored query record.
type QueryLogEntry struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Query      string    `json:"query"`
	QueryType  QueryType `json:"query_type"`
	NumResults int       `json:"num_results"`
	Success    bool      `json:"success"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
}
