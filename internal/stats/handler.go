package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) totals(c *gin.Context) {
	s, err := h.repo.Totals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": s})
}

// Register attaches the dashboard totals route.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.totals)
}
