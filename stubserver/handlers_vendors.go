package stubserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"marche/models"
)

// listVendors returns approved vendors, optionally filtered by search.
func (s *Server) listVendors(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	vendors := make([]models.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		vendors = append(vendors, v)
	}
	s.mu.Unlock()

	filtered := make([]models.Vendor, 0, len(vendors))
	for _, v := range vendors {
		if v.Status != "approved" {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(v.Name), search) {
			continue
		}
		filtered = append(filtered, v)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

	c.JSON(http.StatusOK, gin.H{"vendors": filtered})
}

// getVendor returns a single vendor by id.
func (s *Server) getVendor(c *gin.Context) {
	s.mu.Lock()
	v, ok := s.vendors[c.Param("id")]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": v})
}
