package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/prepmate/prepmate/internal/api/handlers"
	"github.com/prepmate/prepmate/internal/api/middleware"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	WS        *handlers.WSHandler

	// JWTSecret guards the session routes when set. Empty leaves the API
	// open, matching single-tenant deployments behind their own gateway.
	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	g := r.Group("/")
	if d.JWTSecret != "" {
		g.Use(middleware.JWTAuth(d.JWTSecret))
	}

	g.POST("/create-interview", d.Interview.CreateInterview)
	g.POST("/start-interview", d.Interview.StartInterview)
	g.POST("/user-response", d.Interview.UserResponse)
	g.POST("/ai-response", d.Interview.AIResponse)

	g.POST("/interview/:interview_id/resume", d.Interview.UploadResume)
	g.GET("/interview/:interview_id", d.Interview.GetInterview)
	g.POST("/interview/:interview_id/end", d.Interview.EndInterview)

	// WebSocket
	g.GET("/ws/interview/:interview_id", d.WS.InterviewWS)
}
