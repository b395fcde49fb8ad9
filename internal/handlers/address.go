package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/address"
)

// AddressHandler exposes the address parser for debugging scraped data.
type AddressHandler struct{}

// NewAddressHandler creates a new address handler
func NewAddressHandler() *AddressHandler {
	return &AddressHandler{}
}

// PostParse parses one raw address string and reports the extracted levels.
func (h *AddressHandler) PostParse(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := address.Parse(req.Address)
	if result == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "no recognizable province in address",
			"address": req.Address,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"province":     result.Province,
		"district":     result.District,
		"neighborhood": result.Neighborhood,
		"full_address": result.FullAddress(),
		"complete":     result.IsComplete(),
	})
}
