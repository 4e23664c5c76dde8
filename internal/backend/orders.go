package backend

import (
	"context"
	"net/http"
	"net/url"

	"fooddash/internal/domain/model"
)

type restaurantStatusRequest struct {
	Status       model.OrderStatus `json:"status"`
	RestaurantID string            `json:"restaurantId"`
}

type dasherStatusRequest struct {
	Status   model.OrderStatus `json:"status"`
	DasherID string            `json:"dasherId"`
}

type assignDasherRequest struct {
	DasherID string `json:"dasherId"`
}

// POST /orders
func (c *Client) CreateOrder(ctx context.Context, in model.CreateOrder) (model.Order, error) {
	var out model.Order
	if err := c.mutate(ctx, http.MethodPost, "/orders", in, &out, TagOrders); err != nil {
		return model.Order{}, err
	}
	return out, requireID("order", out.ID)
}

// GET /orders/{id}
func (c *Client) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	var out model.Order
	if err := c.query(ctx, "/orders/"+url.PathEscape(orderID), []string{TagOrders}, &out); err != nil {
		return model.Order{}, err
	}
	return out, requireID("order", out.ID)
}

// GET /orders/customer/{id}
func (c *Client) CustomerOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	return c.orderList(ctx, "/orders/customer/"+url.PathEscape(customerID))
}

// GET /orders/restaurant/{id}/active
func (c *Client) RestaurantActiveOrders(ctx context.Context, restaurantID string) ([]model.Order, error) {
	return c.orderList(ctx, "/orders/restaurant/"+url.PathEscape(restaurantID)+"/active")
}

// GET /orders/restaurant/{id}/completed
func (c *Client) RestaurantCompletedOrders(ctx context.Context, restaurantID string) ([]model.Order, error) {
	return c.orderList(ctx, "/orders/restaurant/"+url.PathEscape(restaurantID)+"/completed")
}

// PUT /orders/status/restaurant/{orderId}
func (c *Client) RestaurantUpdateOrderStatus(ctx context.Context, orderID string, restaurantID string, status model.OrderStatus) (model.Order, error) {
	var out model.Order
	body := restaurantStatusRequest{Status: status, RestaurantID: restaurantID}
	if err := c.mutate(ctx, http.MethodPut, "/orders/status/restaurant/"+url.PathEscape(orderID), body, &out, TagOrders); err != nil {
		return model.Order{}, err
	}
	return out, requireID("order", out.ID)
}

// PUT /orders/status/dasher/{orderId}
func (c *Client) DasherUpdateOrderStatus(ctx context.Context, orderID string, dasherID string, status model.OrderStatus) (model.Order, error) {
	var out model.Order
	body := dasherStatusRequest{Status: status, DasherID: dasherID}
	if err := c.mutate(ctx, http.MethodPut, "/orders/status/dasher/"+url.PathEscape(orderID), body, &out, TagOrders); err != nil {
		return model.Order{}, err
	}
	return out, requireID("order", out.ID)
}

// GET /orders/unassigned
func (c *Client) UnassignedOrders(ctx context.Context) ([]model.Order, error) {
	return c.orderList(ctx, "/orders/unassigned")
}

// PUT /orders/assignDasher/{orderId}
func (c *Client) AssignDasher(ctx context.Context, orderID string, dasherID string) (model.Order, error) {
	var out model.Order
	if err := c.mutate(ctx, http.MethodPut, "/orders/assignDasher/"+url.PathEscape(orderID), assignDasherRequest{DasherID: dasherID}, &out, TagOrders); err != nil {
		return model.Order{}, err
	}
	return out, requireID("order", out.ID)
}

// GET /orders/dasher/{id}
func (c *Client) DasherOrders(ctx context.Context, dasherID string) ([]model.Order, error) {
	return c.orderList(ctx, "/orders/dasher/"+url.PathEscape(dasherID))
}

// GET /orders/dasher/{id}/active
// 進行中が無ければ (nil, nil)
func (c *Client) DasherActiveOrder(ctx context.Context, dasherID string) (*model.Order, error) {
	var out model.Order
	err := c.query(ctx, "/orders/dasher/"+url.PathEscape(dasherID)+"/active", []string{TagOrders}, &out)
	if ae, ok := AsAPIError(err); ok && ae.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := requireID("order", out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) orderList(ctx context.Context, path string) ([]model.Order, error) {
	var out []model.Order
	if err := c.query(ctx, path, []string{TagOrders}, &out); err != nil {
		return nil, err
	}
	for _, o := range out {
		if err := requireID("order", o.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
