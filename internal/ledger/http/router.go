package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. Reads are
// public; writes require an identity established by withUser.
func (h *Handler) Register(rg *gin.RouterGroup, withUser gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:public_id", h.get)
	rg.GET("/:public_id/contributions", h.contributions)

	authed := rg.Group("", withUser)
	authed.POST("", h.create)
	authed.POST("/:public_id/contributions", h.contribute)
	authed.POST("/:public_id/comments", h.comment)
}

// RegisterCategories attaches the category reference listing.
func (h *Handler) RegisterCategories(rg *gin.RouterGroup) {
	rg.GET("", h.categories)
}

// RegisterMine attaches the authenticated user's own-project listing to the
// users group.
func (h *Handler) RegisterMine(rg *gin.RouterGroup, withUser gin.HandlerFunc) {
	rg.GET("/me/projects", withUser, h.myProjects)
}
