// Package responses writes the JSON bodies shared by the API handlers.
package responses

import (
	"net/http"

	"github.com/Aidin1998/publications/pkg/models"
	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// OK sends data as a 200 response
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response carrying the generated id
func Created(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

// Healthy sends a 200 health response
func Healthy(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Unavailable sends a 503 health response
func Unavailable(c *gin.Context, reason string) {
	c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: reason})
}
