package main

import (
	"vendor-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Token issuance (public).
	// NOTE: placeholder credential flow; real systems validate credentials here.
	r.POST("/v1/auth/token", h.IssueToken)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		profiles := v1.Group("/profiles")
		{
			profiles.POST("", h.CreateProfile)
			profiles.POST("/import", h.ImportProfiles)
			profiles.GET("/me", h.GetMyProfile)
			profiles.GET("/by-tax-id/:tax_id", h.GetProfileByTaxID)

			profiles.GET("/:id", h.GetProfile)
			profiles.PATCH("/:id", h.UpdateProfile)
			profiles.POST("/:id/claim", h.ClaimProfile)
			profiles.POST("/:id/deactivate", h.DeactivateProfile)

			profiles.GET("/:id/audit", h.ListAuditHistory)
			profiles.GET("/:id/audit/export", h.ExportAuditHistory)
			profiles.GET("/:id/access", h.ListAccessHistory)
			profiles.GET("/:id/provenance", h.GetCurrentProvenance)
		}
	}
}
