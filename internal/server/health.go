package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ServiceName = "nudge-mirror"

func (srv *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}
