package gateway

import "context"

// AuthAPI covers the auth boundary the basket consumes: login/registration
// yield a token, Check validates the stored one.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password string) (string, error)
	Check(ctx context.Context) (string, error)
}

type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	if err := g.client.post(ctx, "api/user/login", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (g *AuthGateway) Register(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	if err := g.client.post(ctx, "api/user/registration", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Check refreshes the token against the backend. ErrUnauthorized here means
// the stored credential is stale, not that the server is down.
func (g *AuthGateway) Check(ctx context.Context) (string, error) {
	var resp tokenResponse
	if err := g.client.get(ctx, "api/user/auth", &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
