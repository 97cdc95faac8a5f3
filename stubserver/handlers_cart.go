package stubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marche/models"
)

// cartItemJSON joins product data into a cart line the way the SQL backend
// does. Callers must hold s.mu.
func (s *Server) cartItemJSON(line cartLine) gin.H {
	product := s.products[line.ProductID]
	return gin.H{
		"id":         line.ID,
		"product_id": line.ProductID,
		"quantity":   line.Quantity,
		"product":    product,
	}
}

// getCart retrieves the user's current cart. The payload lives under
// "cart_items", matching the production backend.
func (s *Server) getCart(c *gin.Context) {
	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[uid]
	items := make([]gin.H, 0, len(lines))
	var total float64
	var totalItems int
	for _, line := range lines {
		items = append(items, s.cartItemJSON(line))
		total += s.products[line.ProductID].Price * float64(line.Quantity)
		totalItems += line.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items":  items,
		"total":       total,
		"item_count":  len(lines),
		"total_items": totalItems,
	})
}

// addToCart adds a product to the cart, merging with an existing line.
func (s *Server) addToCart(c *gin.Context) {
	var input models.CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[input.ProductID]
	if !ok || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	lines := s.carts[uid]
	for i := range lines {
		if lines[i].ProductID == input.ProductID {
			newQuantity := lines[i].Quantity + input.Quantity
			if newQuantity > product.Stock {
				c.JSON(http.StatusBadRequest, gin.H{"error": "not enough stock available"})
				return
			}
			lines[i].Quantity = newQuantity
			s.carts[uid] = lines
			c.JSON(http.StatusOK, gin.H{
				"message":   "Item added to cart",
				"cart_item": s.cartItemJSON(lines[i]),
			})
			return
		}
	}

	if input.Quantity > product.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not enough stock available"})
		return
	}

	line := cartLine{
		ID:        s.nextID(),
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	s.carts[uid] = append(lines, line)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Item added to cart",
		"cart_item": s.cartItemJSON(line),
	})
}

// updateCartItem sets the quantity of a cart line. Quantity zero removes it.
func (s *Server) updateCartItem(c *gin.Context) {
	itemID := c.Param("id")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity cannot be negative"})
		return
	}

	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[uid]
	idx := -1
	for i := range lines {
		if lines[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
		return
	}

	if input.Quantity == 0 {
		s.carts[uid] = append(lines[:idx], lines[idx+1:]...)
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
		return
	}

	product := s.products[lines[idx].ProductID]
	if input.Quantity > product.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not enough stock available"})
		return
	}

	lines[idx].Quantity = input.Quantity
	s.carts[uid] = lines
	c.JSON(http.StatusOK, gin.H{
		"message":   "Cart item updated",
		"cart_item": s.cartItemJSON(lines[idx]),
	})
}

// removeFromCart deletes a cart line.
func (s *Server) removeFromCart(c *gin.Context) {
	itemID := c.Param("id")
	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[uid]
	for i := range lines {
		if lines[i].ID == itemID {
			s.carts[uid] = append(lines[:i], lines[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
}

// clearCart removes every item from the user's cart.
func (s *Server) clearCart(c *gin.Context) {
	uid := userID(c)

	s.mu.Lock()
	delete(s.carts, uid)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
