package handlers

import (
	"net/http"
	"strconv"

	"irrigation_console/internal/models"

	"github.com/gin-gonic/gin"
)

const errInvalidUserID = "invalid user id"

// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, users"
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/admin/users [get]
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.ListUsers(c.Request.Context())
	if err != nil {
		h.actionError(c, "admin_list_users_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

// @Summary      Create device owner
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      models.NewUserParams  true  "new user bound to a device"
// @Success      201   {object}  models.ManagedUser
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/admin/users [post]
func (h *Handler) createUser(c *gin.Context) {
	var input models.NewUserParams
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	u, err := h.services.CreateUser(c.Request.Context(), input)
	if err != nil {
		h.actionError(c, "admin_create_user_failed", err, "username", input.Username)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "user id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/admin/users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidUserID})
		return
	}
	if err := h.services.DeleteUser(c.Request.Context(), id); err != nil {
		h.actionError(c, "admin_delete_user_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
