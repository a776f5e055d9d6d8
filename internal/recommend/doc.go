// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package recommend implements the recommender client controller.
//
// # Architecture
//
// The Controller sits between callers (HTTP handlers, view sessions) and a
// remote recommender service:
//
//   - Availability: a re-checkable record of whether the remote service
//     answered its last check, plus the catalog that check produced.
//   - Suggestions: case-insensitive substring search over the catalog,
//     at most five entries, catalog order.
//   - Recommend: a fixed artificial delay, then the remote service when it is
//     available, downgrading any remote failure to the local Heuristic.
//   - Heuristic: catalog membership check, a curated lookup table, and a
//     shuffle of the fallback catalog with an injectable random source.
//   - Fence: monotonically increasing query tickets that let a session drop
//     answers superseded by a newer query.
//
// # Errors
//
// Validation and not-found failures are returned as *models.Error and are
// meant for the user. Service and network failures from the remote service
// never leave Recommend; they are logged and counted, and the heuristic
// answers instead.
//
// # Usage
//
//	ctrl := recommend.New(backend.NewCircuitBreakerClient(&cfg.Recommender), recommend.ConfigFrom(&cfg.Recommender))
//	ctrl.Refresh(ctx)
//	set, err := ctrl.Recommend(ctx, "Lag Jaa Gale")
//
// # Thread Safety
//
// Controller, Availability, Heuristic and Fence are safe for concurrent use.
package recommend
