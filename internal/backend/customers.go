package backend

import (
	"context"
	"net/http"
	"net/url"

	"fooddash/internal/domain/model"
)

// POST /customers/login
func (c *Client) CustomerLogin(ctx context.Context, cred model.Credentials) (model.Customer, error) {
	var out model.Customer
	if err := c.mutate(ctx, http.MethodPost, "/customers/login", cred, &out); err != nil {
		return model.Customer{}, err
	}
	return out, requireID("customer", out.ID)
}

// POST /customers/signup
func (c *Client) CustomerSignup(ctx context.Context, in model.CustomerSignup) (model.Customer, error) {
	var out model.Customer
	if err := c.mutate(ctx, http.MethodPost, "/customers/signup", in, &out); err != nil {
		return model.Customer{}, err
	}
	return out, requireID("customer", out.ID)
}

// PUT /customers/updateAccount/{id}
func (c *Client) UpdateCustomer(ctx context.Context, customerID string, in model.Customer) (model.Customer, error) {
	var out model.Customer
	if err := c.mutate(ctx, http.MethodPut, "/customers/updateAccount/"+url.PathEscape(customerID), in, &out); err != nil {
		return model.Customer{}, err
	}
	return out, requireID("customer", out.ID)
}

// POST /customers/payments/{id}
func (c *Client) AddPaymentInfo(ctx context.Context, customerID string, p model.PaymentInfo) (model.Customer, error) {
	var out model.Customer
	if err := c.mutate(ctx, http.MethodPost, "/customers/payments/"+url.PathEscape(customerID), p, &out); err != nil {
		return model.Customer{}, err
	}
	return out, requireID("customer", out.ID)
}

// DELETE /customers/payments/{id}（削除対象はボディで渡す）
func (c *Client) DeletePaymentInfo(ctx context.Context, customerID string, p model.PaymentInfo) (model.Customer, error) {
	var out model.Customer
	if err := c.mutate(ctx, http.MethodDelete, "/customers/payments/"+url.PathEscape(customerID), p, &out); err != nil {
		return model.Customer{}, err
	}
	return out, requireID("customer", out.ID)
}
