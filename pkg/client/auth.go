package client

import "context"

// SignIn authenticates with email and password and stores the session
// token on the client for subsequent calls.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var envelope dataEnvelope[AuthResult]
	if err := c.doRequest(ctx, "POST", "/api/auth/signin", body, &envelope); err != nil {
		return nil, err
	}

	c.token = envelope.Data.AccessToken
	return &envelope.Data, nil
}

// SignUp registers a new profile and stores the session token.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var envelope dataEnvelope[AuthResult]
	if err := c.doRequest(ctx, "POST", "/api/auth/signup", body, &envelope); err != nil {
		return nil, err
	}

	c.token = envelope.Data.AccessToken
	return &envelope.Data, nil
}

// Session returns the current session state
func (c *Client) Session(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.doRequest(ctx, "GET", "/api/auth/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
