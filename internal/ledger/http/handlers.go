package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
	"github.com/fundforge/crowdfund-backend/internal/ledger/service"
)

type Handler struct {
	svc *service.LedgerService
}

func NewHandler(svc *service.LedgerService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	snap, err := h.svc.CreateProject(c.Request.Context(), domain.ProjectSpec{
		Title:       req.Title,
		Description: req.Description,
		FundingGoal: req.FundingGoal,
		CreatorID:   c.GetString("user_id"),
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "snapshot": snap})
}

func (h *Handler) contribute(c *gin.Context) {
	var req contributeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	snap, err := h.svc.RecordContribution(c.Request.Context(),
		c.Param("public_id"), c.GetString("user_id"), req.Amount)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "snapshot": snap})
}

func (h *Handler) comment(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	snap, err := h.svc.AppendComment(c.Request.Context(),
		c.Param("public_id"), c.GetString("user_id"), req.Text)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "snapshot": snap})
}

func (h *Handler) get(c *gin.Context) {
	snap, err := h.svc.GetSnapshot(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "snapshot": snap})
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.svc.ListProjects(c.Request.Context(), domain.ProjectFilter{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Limit:      limit,
	})
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

// myProjects lists the projects created by the authenticated user.
func (h *Handler) myProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.svc.ListProjects(c.Request.Context(), domain.ProjectFilter{
		CreatorID: c.GetString("user_id"),
		Limit:     limit,
	})
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) contributions(c *gin.Context) {
	items, err := h.svc.ListContributions(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "contributions": items})
}

func (h *Handler) categories(c *gin.Context) {
	items, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "categories": items})
}

// writeErr maps the ledger error taxonomy onto HTTP statuses with enough
// structure for the presentation layer to render a specific message.
func writeErr(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ve.Reason, "field": ve.Field})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "conflict, retry with backoff"})
	case errors.Is(err, domain.ErrCommitUncertain):
		// Do not invite a blind retry: the write may already be durable.
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "write outcome uncertain, verify before retrying", "uncertain": true})
	case errors.Is(err, domain.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"ok": false, "error": "store timeout"})
	case errors.Is(err, domain.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
