package httpapi

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/server/accounts"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func toUserDTO(a *accounts.Account) userDTO {
	return userDTO{ID: a.ID, Email: a.Email, Name: a.Name}
}

func (s *Server) register(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read body"})
		return
	}

	if !emailPattern.MatchString(accounts.NormalizeEmail(body.Email)) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email address"})
		return
	}
	if len(body.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 8 characters"})
		return
	}

	account, token, err := s.accounts.Register(c.Request.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		s.logger.Error(c.Request.Context(), "registration failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    toUserDTO(account),
	})
}

func (s *Server) login(c *gin.Context) {
	var body struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		TwoFactorCode string `json:"twoFactorCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read body"})
		return
	}

	result, err := s.accounts.Login(c.Request.Context(), body.Email, body.Password, body.TwoFactorCode)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		case errors.Is(err, common.ErrInvalidCodeFormat):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid token format. Must be 6 digits"})
		case errors.Is(err, common.ErrInvalidTwoFactorCode):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid code"})
		default:
			s.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	if result.Requires2FA {
		c.JSON(http.StatusOK, gin.H{
			"requires2FA": true,
			"email":       result.Account.Email,
		})
		return
	}

	s.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    toUserDTO(result.Account),
	})
}

func (s *Server) logout(c *gin.Context) {
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) me(c *gin.Context) {
	claims := sessionClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"user": userDTO{ID: claims.AccountID, Email: claims.Email},
	})
}
