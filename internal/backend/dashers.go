package backend

import (
	"context"
	"net/http"
	"net/url"

	"fooddash/internal/domain/model"
)

func (c *Client) DasherLogin(ctx context.Context, cred model.Credentials) (model.Dasher, error) {
	var out model.Dasher
	if err := c.mutate(ctx, http.MethodPost, "/dashers/login", cred, &out); err != nil {
		return model.Dasher{}, err
	}
	return out, requireID("dasher", out.ID)
}

func (c *Client) DasherSignup(ctx context.Context, in model.DasherSignup) (model.Dasher, error) {
	var out model.Dasher
	if err := c.mutate(ctx, http.MethodPost, "/dashers/signup", in, &out); err != nil {
		return model.Dasher{}, err
	}
	return out, requireID("dasher", out.ID)
}

// PUT /dashers/{id}
func (c *Client) UpdateDasher(ctx context.Context, dasherID string, in model.Dasher) (model.Dasher, error) {
	var out model.Dasher
	if err := c.mutate(ctx, http.MethodPut, "/dashers/"+url.PathEscape(dasherID), in, &out); err != nil {
		return model.Dasher{}, err
	}
	return out, requireID("dasher", out.ID)
}
