package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/database"
)

// RegionHandler serves the administrative hierarchy for browsing.
type RegionHandler struct {
	db *database.GormDB
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(db *database.GormDB) *RegionHandler {
	return &RegionHandler{db: db}
}

// GetCities returns all top-level regions.
func (h *RegionHandler) GetCities(c *gin.Context) {
	cities, err := h.db.ListCities()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cities": cities,
		"count":  len(cities),
	})
}

// GetDistricts returns the districts under one city.
func (h *RegionHandler) GetDistricts(c *gin.Context) {
	cityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid city id"})
		return
	}

	districts, err := h.db.ListDistricts(cityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"districts": districts,
		"count":     len(districts),
	})
}

// GetNeighborhoods returns the neighborhoods under one district.
func (h *RegionHandler) GetNeighborhoods(c *gin.Context) {
	districtID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid district id"})
		return
	}

	neighborhoods, err := h.db.ListNeighborhoods(districtID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"neighborhoods": neighborhoods,
		"count":         len(neighborhoods),
	})
}
