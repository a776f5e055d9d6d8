// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

/*
Package main is the entry point for the Songrec server.

Songrec fronts a remote song recommendation service. It checks the service,
offers title suggestions from the active catalog, and answers recommendation
queries from the remote service or, when the service is down or fails, from a
local heuristic over a built-in catalog. A browser UI and a JSON API share a
view session whose state, notices and availability changes are pushed over a
websocket.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("songrec")
	├── RecommenderSupervisor ("recommender-layer")
	│   ├── Availability refresher (periodic re-check)
	│   ├── Recommendation cache janitor
	│   └── Query log backup scheduler (optional)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub
	│   └── Event bus (Watermill router)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Environment: optional .env file (godotenv)
 2. Configuration: Koanf v2 with defaults, config file and environment variables
 3. Logging: zerolog with JSON/console output modes
 4. Query log: SQLite store in WAL mode (optional, QUERYLOG_ENABLED)
    and its backup manager (optional, BACKUP_ENABLED)
 5. Notice board, WebSocket hub and event bus
 6. Recommendation controller and view session
 7. Initial availability check
 8. HTTP server and supervisor tree

# Configuration

Common environment variables:

	RECOMMENDER_URL=http://localhost:5000/api # remote recommender base URL
	RECOMMENDER_CHECK_TIMEOUT=3s
	RECOMMENDER_DELAY=1500ms                # artificial delay before answering
	RECOMMENDER_REFRESH_INTERVAL=30s        # 0 disables re-probing
	HTTP_PORT=8080
	QUERYLOG_PATH=./data/queries.db
	WAL_ENABLED=true
	WAL_SYNCHRONOUS=NORMAL                  # OFF, NORMAL, FULL or EXTRA
	BACKUP_ENABLED=true                     # backup on start, then every interval
	BACKUP_DIR=./data/backups
	BACKUP_INTERVAL=24h
	KEEP_BACKUP_COUNT=10
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within HTTP_SHUTDOWN_TIMEOUT, websocket clients are closed and the
query log is flushed and closed.
*/
package main
