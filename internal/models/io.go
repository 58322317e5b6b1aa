// Package models provides the core data structures exchanged with the webhook service.
package models

// ResponseData is the envelope wrapping every response of the webhook service.
type ResponseData[T any] struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results T      `json:"results"`
}

// ErrorBody is the subset of a failed response the client cares about.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
