package client

import (
	"net/http"

	"modelbridge/common"
)

// Client is a client for the Model Bridge API.
//
// No timeout is configured on purpose: a chat request blocks until the host
// model call completes, and the bridge itself imposes no deadline either.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client pointed at the default local bridge address.
func NewClient() *Client {
	return NewClientWithBaseURL(common.GetServerBaseUrl())
}

// NewClientWithBaseURL creates a client for a specific bridge address, e.g.
// after the server fell back to an alternate port.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}
