// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package models

// DatasetInfo is the remote recommender's /dataset-info answer.
type DatasetInfo struct {
	Success             bool           `json:"success"`
	TotalSongs          int            `json:"total_songs"`
	Clusters            int            `json:"clusters,omitempty"`
	Features            int            `json:"features,omitempty"`
	ClusterDistribution map[string]int `json:"cluster_distribution,omitempty"`
	Error               string         `json:"error,omitempty"`
}

// SongsResponse is the remote /songs answer.
type SongsResponse struct {
	Success bool   `json:"success"`
	Songs   []Song `json:"songs"`
	Error   string `json:"error,omitempty"`
}

// RecommendRequest is the body of the remote POST /recommend.
type RecommendRequest struct {
	SongName           string `json:"song_name"`
	NumRecommendations int    `json:"num_recommendations"`
}

// RecommendResponse is the remote /recommend answer: either a list or an error.
type RecommendResponse struct {
	Recommendations []Song `json:"recommendations"`
	Error           string `json:"error,omitempty"`
}
