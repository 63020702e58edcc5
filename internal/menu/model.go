package menu

import (
	"context"
	"errors"
)

var ErrItemNotFound = errors.New("menu item not found")

// Item is a menu entry as the catalog returns it. Prices are minor units.
type Item struct {
	ID             int64  `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Description    string `json:"description" db:"description"`
	BasePrice      int64  `json:"base_price" db:"base_price"`
	ImageURL       string `json:"image_url" db:"image_url"`
	CategoryID     int64  `json:"category_id" db:"category_id"`
	Available      bool   `json:"available" db:"available"`
	AllowsSizes    bool   `json:"allows_sizes" db:"allows_sizes"`
	AllowsToppings bool   `json:"allows_toppings" db:"allows_toppings"`
	AllowsSauces   bool   `json:"allows_sauces" db:"allows_sauces"`
	IsCustomizable bool   `json:"is_customizable" db:"is_customizable"`
}

type Topping struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Price int64  `json:"price" db:"price"`
	// CategoryID limits the topping to one category; nil means any.
	CategoryID *int64 `json:"category_id,omitempty" db:"category_id"`
}

type Sauce struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Price int64  `json:"price" db:"price"`
}

// Category groups items; Kind names the configuration variant its items take
// ("pizza", "pasta", "garlic_bread", "salad", "pastry", "baked_potato", "plain").
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Kind string `json:"kind" db:"kind"`
}

// Reader is the read-only catalog collaborator.
type Reader interface {
	GetMenuItems(ctx context.Context) ([]Item, error)
	GetToppings(ctx context.Context) ([]Topping, error)
	GetSauces(ctx context.Context) ([]Sauce, error)
	GetCategories(ctx context.Context) ([]Category, error)
}
