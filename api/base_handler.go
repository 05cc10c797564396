package api

import "github.com/quochao170402/ecommerce-aws/items-api/internal/apperror"

type BaseResponse struct {
	Message string        `json:"message"`
	Data    any           `json:"data"`
	Success bool          `json:"success"`
	Kind    apperror.Kind `json:"kind,omitempty"`
	// Retryable is set when repeating the request (or, for a key collision,
	// repeating it with a new key) may succeed.
	Retryable bool `json:"retryable,omitempty"`
	// Details carries the raw error text outside production.
	Details string `json:"details,omitempty"`
}

type PaginationData struct {
	BaseResponse
	Count int `json:"count"`
}
