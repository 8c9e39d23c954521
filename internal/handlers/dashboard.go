package handlers

import (
	"net/http"
	"strconv"

	"irrigation_console/internal/service"

	"github.com/gin-gonic/gin"
)

const errInvalidPage = "page must be a positive integer"

type irrigateRequest struct {
	VolumeL float64 `json:"volume_l" example:"1.5"`
}

// @Summary      Dashboard snapshot
// @Description  Latest applied status and 24h history from the same tick, plus the data age label.
// @Tags         device
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/dashboard [get]
func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard())
}

// @Summary      Device logs
// @Description  Without page, returns the page kept live by the sync loop. With page, selects and fetches it.
// @Tags         device
// @Produce      json
// @Param        page  query     int  false  "1-based page"  example(2)
// @Success      200   {object}  service.LogView
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	qs := c.Query("page")
	if qs == "" {
		c.JSON(http.StatusOK, h.services.Logs())
		return
	}
	page, err := strconv.Atoi(qs)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPage})
		return
	}
	c.JSON(http.StatusOK, h.services.SetLogPage(c.Request.Context(), page))
}

// @Summary      Manual irrigation
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body      irrigateRequest  true  "volume in litres, (0, 5]"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/irrigate [post]
func (h *Handler) irrigate(c *gin.Context) {
	var input irrigateRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := h.services.Irrigate(c.Request.Context(), input.VolumeL); err != nil {
		h.actionError(c, "irrigate_failed", err, "volume_l", input.VolumeL)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

func (h *Handler) recomputePlan(c *gin.Context) {
	if err := h.services.RecomputePlan(c.Request.Context()); err != nil {
		h.actionError(c, "plan_recompute_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Change password
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      service.PasswordChange  true  "old, new and confirmation"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/password [post]
func (h *Handler) changePassword(c *gin.Context) {
	var input service.PasswordChange
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := h.services.ChangePassword(c.Request.Context(), input); err != nil {
		h.actionError(c, "password_change_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
