package client

import "context"

// Healthz checks liveness
func (c *Client) Healthz(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doRequest(ctx, "GET", "/healthz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Readyz checks readiness, including document store reachability
func (c *Client) Readyz(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doRequest(ctx, "GET", "/readyz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
