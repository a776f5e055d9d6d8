// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

// Package services adapts Songrec components to suture.Service.
//
// Components that already expose Serve(ctx) error and String() (the websocket
// hub, the recommendation cache) are added to the tree directly. This package
// covers the two that need a loop around them: the HTTP server and the
// periodic availability refresh.
package services
