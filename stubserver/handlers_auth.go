package stubserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"marche/models"
)

// register creates a new user account and returns a fresh session.
func (s *Server) register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleVendor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password"})
		return
	}

	s.mu.Lock()
	if _, taken := s.emails[input.Email]; taken {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	id := s.nextID()
	user := models.User{
		ID: id, Email: input.Email,
		FirstName: input.FirstName, LastName: input.LastName,
		Phone: input.Phone, Role: role,
		IsActive: true, CreatedAt: time.Now(),
	}
	s.users[id] = &account{user: user, passwordHash: hash}
	s.emails[input.Email] = id
	s.mu.Unlock()

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": token,
		"user":         user,
	})
}

// login authenticates a user and returns a session with a JWT token.
func (s *Server) login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	id, ok := s.emails[input.Email]
	var acct *account
	if ok {
		acct = s.users[id]
	}
	s.mu.Unlock()

	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.generateToken(acct.user.ID, acct.user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         acct.user,
	})
}

// me returns the user behind the presented token.
func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	acct := s.users[userID(c)]
	s.mu.Unlock()

	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": acct.user})
}
