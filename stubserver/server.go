// Package stubserver is an in-memory rendition of the Marché storefront API,
// used for local development and integration tests. It implements the same
// routes and response shapes as the real backend, including the quirks the
// client has to cope with (the cart payload lives under "cart_items").
package stubserver

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"marche/models"
)

type account struct {
	user         models.User
	passwordHash []byte
}

// cartLine is the persisted form of a cart item: product data is joined in
// at read time, mirroring the SQL backend.
type cartLine struct {
	ID        string
	ProductID string
	Quantity  int
}

// Server holds all storefront state in memory. State is lost on restart,
// which is the point: tests and local development need no database.
type Server struct {
	secret   []byte
	tokenTTL time.Duration

	mu         sync.Mutex
	users      map[string]*account
	emails     map[string]string
	products   map[string]models.Product
	vendors    map[string]models.Vendor
	categories []models.Category
	carts      map[string][]cartLine
	orders     map[string][]models.Order
	seq        int
}

// New creates a seeded server signing tokens with secret.
func New(secret string) *Server {
	s := &Server{
		secret:   []byte(secret),
		tokenTTL: 24 * time.Hour,
		users:    make(map[string]*account),
		emails:   make(map[string]string),
		products: make(map[string]models.Product),
		vendors:  make(map[string]models.Vendor),
		carts:    make(map[string][]cartLine),
		orders:   make(map[string][]models.Order),
	}
	s.seed()
	return s
}

// nextID must be called with s.mu held.
func (s *Server) nextID() string {
	s.seq++
	return strconv.Itoa(s.seq)
}

func (s *Server) seed() {
	now := time.Now()

	s.categories = []models.Category{
		{ID: "1", Name: "Fresh Produce", IsActive: true},
		{ID: "2", Name: "Crafts", IsActive: true},
	}

	s.vendors["1"] = models.Vendor{
		ID: "1", Name: "Banjul Fresh Farms",
		Description: "Fruit and vegetables from the Banjul area",
		Email:       "hello@banjulfresh.gm", Phone: "+220 111 2222",
		Address: "Banjul", Status: "approved", Rating: 4.6,
	}
	s.vendors["2"] = models.Vendor{
		ID: "2", Name: "Serrekunda Crafts",
		Description: "Handmade baskets and woodwork",
		Email:       "orders@serrekundacrafts.gm", Phone: "+220 333 4444",
		Address: "Serrekunda", Status: "approved", Rating: 4.9,
	}

	s.products["1"] = models.Product{
		ID: "1", Name: "Mangoes (1kg)", Description: "Kent mangoes, tree ripened",
		Price: 45, Images: []string{"/img/mangoes.jpg"},
		Vendor: s.vendors["1"], Category: s.categories[0],
		Stock: 120, IsActive: true, CreatedAt: now,
	}
	s.products["2"] = models.Product{
		ID: "2", Name: "Woven Basket", Description: "Large handwoven storage basket",
		Price: 250, Images: []string{"/img/basket.jpg"},
		Vendor: s.vendors["2"], Category: s.categories[1],
		Stock: 15, IsActive: true, CreatedAt: now,
	}
	s.products["3"] = models.Product{
		ID: "3", Name: "Cashew Nuts (500g)", Description: "Roasted and salted",
		Price: 90, Images: []string{"/img/cashews.jpg"},
		Vendor: s.vendors["1"], Category: s.categories[0],
		Stock: 40, IsActive: true, CreatedAt: now,
	}
	s.seq = 3

	s.seedUser("customer@marche.gm", "customer123", "Demo", "Customer", models.RoleCustomer)
	s.seedUser("vendor@marche.gm", "vendor123", "Demo", "Vendor", models.RoleVendor)
	s.seedUser("admin@marche.gm", "admin123", "Demo", "Admin", models.RoleAdmin)
}

func (s *Server) seedUser(email, password, first, last, role string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic("stubserver: seed password hash: " + err.Error())
	}
	id := s.nextID()
	s.users[id] = &account{
		user: models.User{
			ID: id, Email: email, FirstName: first, LastName: last,
			Role: role, IsActive: true, CreatedAt: time.Now(),
		},
		passwordHash: hash,
	}
	s.emails[email] = id
}
