// Package stubserver implements a local stub dispatch service for
// development and demos.
//
// The stub accepts ambulance request submissions on POST /v1/requests,
// validates them with the same rules the client uses, and answers with a
// receipt carrying a generated incident id. GET /v1/requests/{id}/events
// upgrades to a websocket and replays a fixed status sequence (received,
// assigned, en_route, arrived, closed) at a configurable interval.
//
// All state is in memory. The stub exists so 'aidline --endpoint' and
// 'aidline track' can be exercised end to end without a real dispatch
// backend.
package stubserver
