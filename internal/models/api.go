package models

// ErrorResponse is returned by the JSON API for every failed call.
type ErrorResponse struct {
	Category string `json:"category" example:"network"`
	Message  string `json:"message" example:"HTTP error! status: 500 - Internal Server Error"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
