package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsmirnov/passvault/internal/common"
)

func (s *Server) enableTwoFactor(c *gin.Context) {
	claims := sessionClaims(c)

	enrollment, err := s.accounts.BeginEnrollment(c.Request.Context(), claims.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTwoFactorAlreadyEnabled):
			c.JSON(http.StatusBadRequest, gin.H{"message": "2FA is already enabled"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			s.logger.Error(c.Request.Context(), "2FA enable failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to enable 2FA"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "2FA setup initiated",
		"qrCode":  enrollment.QRCode,
		"secret":  enrollment.Secret,
	})
}

func (s *Server) verifyTwoFactor(c *gin.Context) {
	claims := sessionClaims(c)

	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read body"})
		return
	}

	err := s.accounts.ConfirmEnrollment(c.Request.Context(), claims.AccountID, body.Token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCodeFormat):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid token format. Must be 6 digits"})
		case errors.Is(err, common.ErrEnrollmentNotStarted):
			c.JSON(http.StatusBadRequest, gin.H{"message": "2FA not initiated. Please enable 2FA first"})
		case errors.Is(err, common.ErrTwoFactorAlreadyEnabled):
			c.JSON(http.StatusBadRequest, gin.H{"message": "2FA is already enabled"})
		case errors.Is(err, common.ErrInvalidTwoFactorCode):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid code. Please try again"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			s.logger.Error(c.Request.Context(), "2FA verify failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify 2FA"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "2FA enabled successfully",
		"success": true,
	})
}
