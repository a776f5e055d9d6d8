// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

/*
Package eventprocessor carries controller, notice and view events to their
consumers over an in-process Watermill bus.

Producers publish on a topic with a message type; the payload is the JSON
encoding of the event data and the type travels in message metadata. The bus
runs a Watermill router with panic recovery and retry middleware, and is a
suture.Service so it lives in the supervisor tree:

	bus, err := eventprocessor.NewBus(eventprocessor.DefaultConfig())
	ws, _ := eventprocessor.NewWebSocketHandler(hub)
	bus.AddConsumer("websocket-availability", eventprocessor.TopicAvailability, ws.Handle)
	tree.AddMessagingService(bus)

	bus.Publish(ctx, eventprocessor.TopicAvailability, "availability", status)

# Topics

	TopicAvailability  remote recommender status after each check
	TopicNotices       notice board events (raised, dismissed, expired)
	TopicViewState     view session snapshots

Events published while no consumer is subscribed are dropped. Consumers are
delivered messages in publish order.
*/
package eventprocessor
