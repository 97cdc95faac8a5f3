package stubserver

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"marche/models"
)

// createOrder places an order for the posted items and clears those products
// from the user's cart, mirroring the production backend.
func (s *Server) createOrder(c *gin.Context) {
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must contain at least one item"})
		return
	}
	if input.PaymentMethod == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method is required"})
		return
	}

	uid := userID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.CartItem
	var total float64
	ordered := make(map[string]bool, len(input.Items))
	for _, in := range input.Items {
		product, ok := s.products[in.ProductID]
		if !ok || !product.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if in.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
			return
		}
		if in.Quantity > product.Stock {
			c.JSON(http.StatusBadRequest, gin.H{"error": "not enough stock available"})
			return
		}
		items = append(items, models.CartItem{
			ID:       s.nextID(),
			Product:  product,
			Quantity: in.Quantity,
		})
		total += product.Price * float64(in.Quantity)
		ordered[in.ProductID] = true
	}

	// Decrement stock and drop the ordered products from the cart.
	for _, it := range items {
		p := s.products[it.Product.ID]
		p.Stock -= it.Quantity
		s.products[p.ID] = p
	}
	var kept []cartLine
	for _, line := range s.carts[uid] {
		if !ordered[line.ProductID] {
			kept = append(kept, line)
		}
	}
	s.carts[uid] = kept

	order := models.Order{
		ID:               s.nextID(),
		UserID:           uid,
		Items:            items,
		Total:            total,
		Status:           models.OrderPending,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		ShippingAddress:  input.ShippingAddress,
		Notes:            input.Notes,
		CreatedAt:        time.Now(),
	}
	s.orders[uid] = append(s.orders[uid], order)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created",
		"order":   order,
	})
}

// listOrders returns the user's order history, newest first.
func (s *Server) listOrders(c *gin.Context) {
	status := c.Query("status")
	uid := userID(c)

	s.mu.Lock()
	orders := make([]models.Order, 0, len(s.orders[uid]))
	for _, o := range s.orders[uid] {
		if status != "" && o.Status != status {
			continue
		}
		orders = append(orders, o)
	}
	s.mu.Unlock()

	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder returns a single order owned by the user.
func (s *Server) getOrder(c *gin.Context) {
	uid := userID(c)
	orderID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders[uid] {
		if o.ID == orderID {
			c.JSON(http.StatusOK, gin.H{"order": o})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
}

// cancelOrder cancels a pending order and restores product stock.
func (s *Server) cancelOrder(c *gin.Context) {
	uid := userID(c)
	orderID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders[uid]
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if orders[i].Status != models.OrderPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only pending orders can be cancelled"})
			return
		}
		orders[i].Status = models.OrderCancelled
		for _, it := range orders[i].Items {
			p := s.products[it.Product.ID]
			p.Stock += it.Quantity
			s.products[p.ID] = p
		}
		s.orders[uid] = orders
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": orders[i]})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
}
