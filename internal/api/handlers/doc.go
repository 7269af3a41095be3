// Package handlers implements HTTP handlers for the bargain-finder API.
// Operations are registered on a huma.API; the liveness and readiness
// probes are plain echo handlers.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
