package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// shopItem is one purchasable catalog entry. Checkout itself goes
// through the external payment provider; this API only serves the
// catalog.
type shopItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

var shopCatalog = []shopItem{
	{ID: 1, Name: "VIP Membership", Price: 4.99, Currency: "USD"},
	{ID: 2, Name: "Diamonds Pack", Price: 9.99, Currency: "USD"},
	{ID: 3, Name: "Pixel Hat", Price: 2.49, Currency: "USD"},
}

// Shop returns the static shop catalog.
func Shop(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": shopCatalog})
}
