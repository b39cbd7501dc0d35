package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/server/vault"
)

// itemDTO is the wire form of a vault item. The password field carries the
// ciphertext produced client-side; it is opaque here.
type itemDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Password  string    `json:"password"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type itemBody struct {
	Title    string   `json:"title"`
	Password string   `json:"password"`
	URL      string   `json:"url"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

func toItemDTO(item *vault.Item) itemDTO {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return itemDTO{
		ID:        item.ID,
		Title:     item.Title,
		Password:  item.EncryptedPassword,
		URL:       item.URL,
		Notes:     item.Notes,
		Tags:      tags,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func (s *Server) bindItem(c *gin.Context) (*vault.Item, bool) {
	var body itemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read body"})
		return nil, false
	}
	if body.Title == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and password are required"})
		return nil, false
	}
	return &vault.Item{
		Title:             body.Title,
		EncryptedPassword: body.Password,
		URL:               body.URL,
		Notes:             body.Notes,
		Tags:              body.Tags,
	}, true
}

func (s *Server) createItem(c *gin.Context) {
	claims := sessionClaims(c)

	item, ok := s.bindItem(c)
	if !ok {
		return
	}

	created, err := s.vault.Create(c.Request.Context(), claims.AccountID, item)
	if err != nil {
		s.logger.Error(c.Request.Context(), "vault create failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vault item created", "vault": toItemDTO(created)})
}

func (s *Server) listItems(c *gin.Context) {
	claims := sessionClaims(c)

	items, err := s.vault.Search(c.Request.Context(), claims.AccountID, c.Query("search"))
	if err != nil {
		s.logger.Error(c.Request.Context(), "vault search failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	dtos := make([]itemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toItemDTO(item))
	}

	c.JSON(http.StatusOK, gin.H{"vaultItems": dtos})
}

func (s *Server) getItem(c *gin.Context) {
	claims := sessionClaims(c)

	item, err := s.vault.Get(c.Request.Context(), claims.AccountID, c.Param("id"))
	if err != nil {
		s.respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vault": toItemDTO(item)})
}

func (s *Server) updateItem(c *gin.Context) {
	claims := sessionClaims(c)

	item, ok := s.bindItem(c)
	if !ok {
		return
	}
	item.ID = c.Param("id")

	updated, err := s.vault.Update(c.Request.Context(), claims.AccountID, item)
	if err != nil {
		s.respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vault item updated", "vault": toItemDTO(updated)})
}

func (s *Server) deleteItem(c *gin.Context) {
	claims := sessionClaims(c)

	if err := s.vault.Delete(c.Request.Context(), claims.AccountID, c.Param("id")); err != nil {
		s.respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vault item deleted successfully"})
}

func (s *Server) respondItemError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Vault item not found"})
		return
	}
	s.logger.Error(c.Request.Context(), "vault operation failed", "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
