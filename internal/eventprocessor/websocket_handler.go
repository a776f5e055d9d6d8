// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package eventprocessor

import (
	"errors"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// WebSocketBroadcaster sends a typed message to every connected client.
// *websocket.Hub implements it.
type WebSocketBroadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// WebSocketHandler forwards bus events to websocket clients unchanged.
type WebSocketHandler struct {
	hub WebSocketBroadcaster

	messagesReceived  atomic.Int64
	messagesBroadcast atomic.Int64
}

// WebSocketHandlerStats holds runtime statistics.
type WebSocketHandlerStats struct {
	MessagesReceived  int64
	MessagesBroadcast int64
}

// NewWebSocketHandler creates a handler broadcasting through hub.
func NewWebSocketHandler(hub WebSocketBroadcaster) (*WebSocketHandler, error) {
	if hub == nil {
		return nil, errors.New("hub required")
	}
	return &WebSocketHandler{hub: hub}, nil
}

// Handle broadcasts the message payload under its metadata message type.
// Messages without a type are skipped. It never fails; a broadcast that the
// hub drops is not retried.
func (h *WebSocketHandler) Handle(msg *message.Message) error {
	h.messagesReceived.Add(1)

	messageType := msg.Metadata.Get(MetadataMessageType)
	if messageType == "" {
		return nil
	}

	// Copy: the payload buffer belongs to the message.
	payload := make(json.RawMessage, len(msg.Payload))
	copy(payload, msg.Payload)

	h.hub.BroadcastJSON(messageType, payload)
	h.messagesBroadcast.Add(1)
	return nil
}

// Stats returns current handler statistics.
func (h *WebSocketHandler) Stats() WebSocketHandlerStats {
	return WebSocketHandlerStats{
		MessagesReceived:  h.messagesReceived.Load(),
		MessagesBroadcast: h.messagesBroadcast.Load(),
	}
}

// Subscribe registers h on every topic the UI listens to.
func (h *WebSocketHandler) Subscribe(bus *Bus) {
	bus.AddConsumer("websocket-availability", TopicAvailability, h.Handle)
	bus.AddConsumer("websocket-notices", TopicNotices, h.Handle)
	bus.AddConsumer("websocket-view", TopicViewState, h.Handle)
}
