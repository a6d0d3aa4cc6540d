package main

import (
	"github.com/gin-gonic/gin"

	"assembly-directory.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	memberHandler  *handlers.MemberHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	{
		// Member routes (public read)
		members := api.Group("/members")
		{
			members.GET("", d.memberHandler.ListMembers)
			members.GET("/filters", d.memberHandler.GetFilterOptions)
			members.GET("/:id", d.memberHandler.GetMember)
		}

		// Member routes (admin write)
		membersAdmin := api.Group("/members")
		membersAdmin.Use(d.authMiddleware)
		{
			membersAdmin.POST("", d.memberHandler.CreateMember)
			membersAdmin.PUT("/:id", d.memberHandler.UpdateMember)
			membersAdmin.DELETE("/:id", d.memberHandler.DeleteMember)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", d.authHandler.Login)
			admin.GET("/me", d.authMiddleware, d.authHandler.Me)
		}
	}
}
