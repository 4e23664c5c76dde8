package backend

import (
	"context"
	"net/http"
	"net/url"

	"fooddash/internal/domain/model"
)

// GET /dishes/restaurant/{id}
func (c *Client) DishesByRestaurant(ctx context.Context, restaurantID string) ([]model.Dish, error) {
	var out []model.Dish
	if err := c.query(ctx, "/dishes/restaurant/"+url.PathEscape(restaurantID), []string{TagDishes}, &out); err != nil {
		return nil, err
	}
	for _, d := range out {
		if err := requireID("dish", d.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) CreateDish(ctx context.Context, in model.CreateDish) (model.Dish, error) {
	var out model.Dish
	if err := c.mutate(ctx, http.MethodPost, "/dishes", in, &out, TagDishes); err != nil {
		return model.Dish{}, err
	}
	return out, requireID("dish", out.ID)
}

func (c *Client) UpdateDish(ctx context.Context, in model.Dish) (model.Dish, error) {
	var out model.Dish
	if err := c.mutate(ctx, http.MethodPut, "/dishes/"+url.PathEscape(in.ID), in, &out, TagDishes); err != nil {
		return model.Dish{}, err
	}
	return out, requireID("dish", out.ID)
}

func (c *Client) DeleteDish(ctx context.Context, dishID string) error {
	return c.mutate(ctx, http.MethodDelete, "/dishes/"+url.PathEscape(dishID), nil, nil, TagDishes)
}
