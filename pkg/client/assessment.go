package client

import (
	"context"
	"net/url"
)

// Results fetches assessment results for the given email. The email must
// match the authenticated session.
func (c *Client) Results(ctx context.Context, email string) (*Results, error) {
	path := "/api/user-results"
	if email != "" {
		path += "?email=" + url.QueryEscape(email)
	}

	var envelope dataEnvelope[Results]
	if err := c.doRequest(ctx, "GET", path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Guidance fetches stored career guidance for a profile id or email.
func (c *Client) Guidance(ctx context.Context, userRef string) (*Guidance, error) {
	var envelope dataEnvelope[Guidance]
	path := "/api/career-guidance/" + url.PathEscape(userRef)
	if err := c.doRequest(ctx, "GET", path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
