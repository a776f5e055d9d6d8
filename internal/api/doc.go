// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

/*
Package api exposes the Songrec controller over HTTP.

Routing uses chi. Every JSON endpoint answers with the standard envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "...", "message": "...", "details": ..., "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Routes:

	GET    /health/live                          liveness
	GET    /health/ready                         readiness with dependency report
	GET    /api/v1/status                        availability snapshot
	POST   /api/v1/status/refresh                re-check the remote recommender
	GET    /api/v1/songs                         active catalog
	GET    /api/v1/suggestions?q=                title suggestions
	POST   /api/v1/recommendations               {"song_name"} -> recommendation set
	POST   /api/v1/embed/video                   {"input"} -> YouTube embed
	POST   /api/v1/embed/audio                   {"input"} -> Spotify embed
	GET    /api/v1/session                       shared view snapshot
	POST   /api/v1/session/query                 update query text and suggestions
	POST   /api/v1/session/search                fenced search on the shared view
	POST   /api/v1/session/video                 play in the video pane
	POST   /api/v1/session/audio                 play in the audio pane
	POST   /api/v1/session/cards/{index}/play    search the card on YouTube
	POST   /api/v1/session/cards/{index}/spotify Spotify hint for the card
	DELETE /api/v1/session/notices/{id}          dismiss a notice
	GET    /api/v1/query-logs?limit=             recent queries
	GET    /api/v1/query-logs/backups            query log backups, newest first
	POST   /api/v1/query-logs/backups            take a backup now
	GET    /api/v1/performance                   latency percentiles per route
	GET    /api/v1/ws                            websocket feed
	GET    /metrics                              Prometheus
	GET    /                                     index page

Controller errors map to HTTP as follows:

	validation   400 VALIDATION_FAILED
	not found    404 NOT_FOUND (details.did_you_mean)
	service      502 EXTERNAL_SERVICE_FAILED
	network      503 SERVICE_UNAVAILABLE
	superseded   409 SUPERSEDED
*/
package api
