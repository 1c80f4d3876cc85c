package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront-client/internal/domain"
)

const userIDKey = "userID"

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (d deps) loginHandler(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	acc := d.state.findByEmail(in.Email)
	if acc == nil || acc.password != in.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	access, err := d.issueAccessToken(acc.user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	refresh := uuid.NewString()
	d.state.refreshTokens[refresh] = acc.user.ID

	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

func (d deps) registerHandler(c *gin.Context) {
	var in struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	if d.state.findByEmail(in.Email) != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	userID := uuid.NewString()
	d.state.accounts[userID] = &account{
		password: in.Password,
		user: domain.User{
			ID:        userID,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Roles:     []domain.Role{{Name: "ROLE_CLIENT"}},
		},
	}
	c.JSON(http.StatusCreated, gin.H{"id": userID})
}

func (d deps) refreshHandler(c *gin.Context) {
	var in refreshRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	userID, ok := d.state.refreshTokens[in.RefreshToken]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	access, err := d.issueAccessToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (d deps) profileHandler(c *gin.Context) {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	acc, ok := d.state.accounts[c.GetString(userIDKey)]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, acc.user)
}

func (d deps) addAddressHandler(c *gin.Context) {
	var in domain.Address
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}
	if strings.TrimSpace(in.AddressLine1) == "" || strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.PostalCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "addressLine1, city and postalCode required"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	acc, ok := d.state.accounts[c.GetString(userIDKey)]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	in.ID = uuid.NewString()
	acc.user.Addresses = append(acc.user.Addresses, in)
	c.JSON(http.StatusCreated, in)
}

func (d deps) updateAddressHandler(c *gin.Context) {
	var in domain.Address
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	acc, ok := d.state.accounts[c.GetString(userIDKey)]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	id := c.Param("id")
	for i := range acc.user.Addresses {
		if acc.user.Addresses[i].ID == id {
			in.ID = id
			acc.user.Addresses[i] = in
			c.JSON(http.StatusOK, in)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
}

func (d deps) deleteAddressHandler(c *gin.Context) {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	acc, ok := d.state.accounts[c.GetString(userIDKey)]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	id := c.Param("id")
	for i := range acc.user.Addresses {
		if acc.user.Addresses[i].ID == id {
			acc.user.Addresses = append(acc.user.Addresses[:i], acc.user.Addresses[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
}

func (d deps) issueAccessToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": nowUTC().Add(d.accessTokenTTL).Unix(),
		"iat": nowUTC().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(d.jwtSecret))
}

// authGuard validates the bearer token and stashes the user id on the context.
func (d deps) authGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(raw, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(d.jwtSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userIDKey, sub)
		c.Next()
	}
}
