package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"sainiksetu/internal/database"
	"sainiksetu/internal/logger"
	"sainiksetu/internal/models"

	"github.com/gin-gonic/gin"
)

func handleCatalog(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	items, err := database.GetItems(db)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "catalog.html", pageData(c, "CSD Catalog - Sainik Setu", gin.H{
			"Error": "Failed to load catalog",
		}))
		return
	}

	cartItems, err := database.GetCartItems(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "catalog.html", pageData(c, "CSD Catalog - Sainik Setu", gin.H{
			"Error": "Failed to load cart",
		}))
		return
	}

	// Existing cart quantities keyed by item id, for the quantity column.
	existing := make(map[int]models.CartItem, len(cartItems))
	for _, ci := range cartItems {
		existing[ci.ItemID] = ci
	}

	c.HTML(http.StatusOK, "catalog.html", pageData(c, "CSD Catalog - Sainik Setu", gin.H{
		"Items":     items,
		"Existing":  existing,
		"CSRFToken": csrfTokenFor(c, userID),
	}))
}

func handleAddToCart(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	itemID, err := strconv.Atoi(c.PostForm("item_id"))
	if err != nil {
		renderNotFound(c)
		return
	}

	quantity, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	err = database.AddToCart(db, userID, itemID, quantity)
	switch {
	case errors.Is(err, database.ErrNotFound):
		renderNotFound(c)
		return
	case errors.Is(err, database.ErrOutOfStock):
		setFlash(c, "warning", "Item out of stock")
		c.Redirect(http.StatusFound, "/csd/catalog")
		return
	case err != nil:
		logger.Error("Failed to add to cart", "user_id", userID, "item_id", itemID, "error", err)
		setFlash(c, "danger", "Failed to add item to cart")
		c.Redirect(http.StatusFound, "/csd/catalog")
		return
	}

	setFlash(c, "success", "Added to cart")
	c.Redirect(http.StatusFound, "/csd/catalog")
}

func handleViewCart(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	cartItems, err := database.GetCartItems(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "cart.html", pageData(c, "Cart - Sainik Setu", gin.H{
			"Error": "Failed to load cart",
		}))
		return
	}

	var total float64
	for _, ci := range cartItems {
		total += ci.LineTotal
	}

	c.HTML(http.StatusOK, "cart.html", pageData(c, "Cart - Sainik Setu", gin.H{
		"CartItems": cartItems,
		"Total":     total,
		"CSRFToken": csrfTokenFor(c, userID),
	}))
}

func handleUpdateCart(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	cartItemID, err := strconv.Atoi(c.PostForm("cart_item_id"))
	if err != nil {
		renderNotFound(c)
		return
	}

	quantity, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil {
		quantity = 1
	}

	err = database.UpdateCartQuantity(db, userID, cartItemID, quantity)
	switch {
	case errors.Is(err, database.ErrNotFound):
		renderNotFound(c)
		return
	case errors.Is(err, database.ErrNotOwner):
		setFlash(c, "danger", "Unauthorized")
		c.Redirect(http.StatusFound, "/csd/cart")
		return
	case err != nil:
		logger.Error("Failed to update cart", "user_id", userID, "cart_item_id", cartItemID, "error", err)
		setFlash(c, "danger", "Failed to update cart")
		c.Redirect(http.StatusFound, "/csd/cart")
		return
	}

	setFlash(c, "success", "Cart updated")
	c.Redirect(http.StatusFound, "/csd/cart")
}

func handleCheckout(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	if err := database.Checkout(db, userID); err != nil {
		logger.Error("Checkout failed", "user_id", userID, "error", err)
		setFlash(c, "danger", "Checkout failed. Please try again.")
		c.Redirect(http.StatusFound, "/csd/cart")
		return
	}

	setFlash(c, "success", "Checkout successful")
	c.Redirect(http.StatusFound, "/csd/catalog")
}
