package backend

import (
	"context"
	"net/http"
	"net/url"

	"fooddash/internal/domain/model"
)

func (c *Client) RestaurantLogin(ctx context.Context, cred model.Credentials) (model.Restaurant, error) {
	var out model.Restaurant
	if err := c.mutate(ctx, http.MethodPost, "/restaurants/login", cred, &out); err != nil {
		return model.Restaurant{}, err
	}
	return out, requireID("restaurant", out.ID)
}

func (c *Client) RestaurantSignup(ctx context.Context, in model.RestaurantSignup) (model.Restaurant, error) {
	var out model.Restaurant
	if err := c.mutate(ctx, http.MethodPost, "/restaurants/signup", in, &out, TagRestaurants); err != nil {
		return model.Restaurant{}, err
	}
	return out, requireID("restaurant", out.ID)
}

// PUT /restaurants/{id}
func (c *Client) UpdateRestaurant(ctx context.Context, restaurantID string, in model.Restaurant) (model.Restaurant, error) {
	var out model.Restaurant
	if err := c.mutate(ctx, http.MethodPut, "/restaurants/"+url.PathEscape(restaurantID), in, &out, TagRestaurants); err != nil {
		return model.Restaurant{}, err
	}
	return out, requireID("restaurant", out.ID)
}

// GET /restaurants
func (c *Client) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	var out []model.Restaurant
	if err := c.query(ctx, "/restaurants", []string{TagRestaurants}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GET /restaurants/{id}
func (c *Client) GetRestaurant(ctx context.Context, restaurantID string) (model.Restaurant, error) {
	var out model.Restaurant
	if err := c.query(ctx, "/restaurants/"+url.PathEscape(restaurantID), []string{TagRestaurants}, &out); err != nil {
		return model.Restaurant{}, err
	}
	return out, requireID("restaurant", out.ID)
}
