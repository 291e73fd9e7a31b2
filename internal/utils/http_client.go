package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client. The embedding exposes resty's fluent API
// directly; the agent's server adapter layers authentication and retry
// behaviour on top.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with its own connection pool
// and default resty configuration.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get(baseURL + "/sync/status")
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
