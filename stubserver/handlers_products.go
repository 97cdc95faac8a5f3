package stubserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"marche/models"
)

// listProducts returns active products matching the query filters.
func (s *Server) listProducts(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))
	categoryID := c.Query("category_id")
	vendorID := c.Query("vendor_id")
	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)

	s.mu.Lock()
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	s.mu.Unlock()

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if categoryID != "" && p.Category.ID != categoryID {
			continue
		}
		if vendorID != "" && p.Vendor.ID != vendorID {
			continue
		}
		if minPrice > 0 && p.Price < minPrice {
			continue
		}
		if maxPrice > 0 && p.Price > maxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	// Map iteration order is random; keep the listing stable.
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

	c.JSON(http.StatusOK, gin.H{"products": filtered})
}

// getProduct returns a single product by id.
func (s *Server) getProduct(c *gin.Context) {
	s.mu.Lock()
	p, ok := s.products[c.Param("id")]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// listCategories returns the browsing categories.
func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	categories := make([]models.Category, len(s.categories))
	copy(categories, s.categories)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
