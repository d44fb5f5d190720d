// Package handlers implements HTTP handlers for the pickupwatch API.
// Errors surface as huma's standard problem responses.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
