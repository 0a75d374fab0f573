// Package websocket provides real-time event streaming via WebSocket.
//
// Clients connect to /api/v1/plans/:id/ws to receive lifecycle events for
// one plan; the stream closes after the plan's terminal event.
package websocket
