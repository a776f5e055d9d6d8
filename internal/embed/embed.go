// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package embed builds embeddable player URLs from user input: YouTube video
// links or search phrases for the video pane, and Spotify track links or URIs
// for the audio pane.
package embed

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tomtom215/songrec/internal/models"
)

const (
	youTubeVideoURL  = "https://www.youtube.com/embed/%s?autoplay=1"
	youTubeSearchURL = "https://www.youtube.com/embed?listType=search&list=%s&autoplay=1"
	spotifyTrackURL  = "https://open.spotify.com/embed/track/%s"
)

// User-facing validation messages.
const (
	MsgVideoEmpty   = "Enter a YouTube search term or paste a YouTube URL"
	MsgAudioEmpty   = "Paste a Spotify track URL or URI"
	MsgAudioInvalid = "Could not parse Spotify track id. Paste a URL like https://open.spotify.com/track/{id} or spotify:track:{id}"
)

var (
	youTubeIDPattern  = regexp.MustCompile(`(?:v=|youtu\.be/|youtube\.com/watch\?v=|youtube\.com/embed/)([A-Za-z0-9_-]{11})`)
	spotifyURLPattern = regexp.MustCompile(`open\.spotify\.com/track/([A-Za-z0-9]+)(?:\?|$)`)
	spotifyURIPattern = regexp.MustCompile(`spotify:track:([A-Za-z0-9]+)`)
)

// VideoKind tells whether a video embed plays one video or a search list.
type VideoKind string

const (
	VideoKindVideo  VideoKind = "video"
	VideoKindSearch VideoKind = "search"
)

// Video is a resolved video pane source.
type Video struct {
	URL     string    `json:"url"`
	Kind    VideoKind `json:"kind"`
	VideoID string    `json:"video_id,omitempty"`
	Query   string    `json:"query,omitempty"`
}

// Audio is a resolved audio pane source.
type Audio struct {
	URL     string `json:"url"`
	TrackID string `json:"track_id"`
}

// ResolveVideo turns a pasted YouTube URL into a single-video embed and any
// other non-empty phrase into a search-list embed.
func ResolveVideo(input string) (*Video, error) {
	q := strings.TrimSpace(input)
	if q == "" {
		return nil, models.NewValidationError("embed.video", MsgVideoEmpty)
	}

	if m := youTubeIDPattern.FindStringSubmatch(q); m != nil {
		return &Video{
			URL:     fmt.Sprintf(youTubeVideoURL, m[1]),
			Kind:    VideoKindVideo,
			VideoID: m[1],
		}, nil
	}

	return &Video{
		URL:   fmt.Sprintf(youTubeSearchURL, encodeComponent(q)),
		Kind:  VideoKindSearch,
		Query: q,
	}, nil
}

// ResolveAudio extracts a track id from an open.spotify.com track URL or a
// spotify:track: URI.
func ResolveAudio(input string) (*Audio, error) {
	q := strings.TrimSpace(input)
	if q == "" {
		return nil, models.NewValidationError("embed.audio", MsgAudioEmpty)
	}

	m := spotifyURLPattern.FindStringSubmatch(q)
	if m == nil {
		m = spotifyURIPattern.FindStringSubmatch(q)
	}
	if m == nil {
		return nil, models.NewValidationError("embed.audio", MsgAudioInvalid)
	}

	return &Audio{
		URL:     fmt.Sprintf(spotifyTrackURL, m[1]),
		TrackID: m[1],
	}, nil
}

// SongSearchPhrase is the video search phrase used by a result card.
func SongSearchPhrase(title string) string {
	return strings.TrimSpace(title) + " Hindi song"
}

// encodeComponent percent-encodes s for a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
