package users

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

// deleteCascade removes a creator and all owned projects, contributions and
// comments. The cascade is explicit and irreversible.
func (h *Handler) deleteCascade(c *gin.Context) {
	ok, err := h.repo.DeleteCascade(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Register attaches user routes to the given router group. The cascade
// delete requires an established identity like every other write.
func (h *Handler) Register(rg *gin.RouterGroup, withUser gin.HandlerFunc) {
	rg.DELETE("/:public_id", withUser, h.deleteCascade)
}
