// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

/*
Package supervisor runs Songrec's long-lived services under suture v4.

Tree layout:

	songrec
	├── recommender-layer
	│   ├── availability-refresher   re-checks the remote recommender
	│   └── recommendation-cache     expires cached remote answers
	├── messaging-layer
	│   └── websocket-hub            fans view, notice and availability updates out
	└── api-layer
	    └── http-server

Each layer counts failures on its own, so a crashing hub does not take the
HTTP server down with it. Supervisor events are logged through sutureslog
into the zerolog-backed slog handler from the logging package.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddRecommenderService(services.NewRefreshService(ctrl, interval))
	tree.AddRecommenderService(ctrl.Cache())
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
