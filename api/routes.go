package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func registerRoutes(r gin.IRouter, s *server) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.GET("/addresses/global", s.globalAddress)
	r.GET("/addresses/participants/:identity", s.participantAddress)

	r.POST("/initialize", s.initialize)
	r.POST("/participants", s.registerParticipant)
	r.POST("/scores", s.submitScore)

	r.GET("/leaderboard", s.leaderboard)
	r.GET("/participants/:identity", s.participant)
}
