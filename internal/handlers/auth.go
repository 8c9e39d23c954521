package handlers

import (
	"net/http"

	"irrigation_console/internal/models"

	"github.com/gin-gonic/gin"
)

// loginRequest is the login form. Admin selects the admin login endpoint.
type loginRequest struct {
	Username string `json:"username" example:"farmer"`
	Password string `json:"password" example:"secret"`
	Admin    bool   `json:"admin"`
}

// sessionResponse never carries the token; the gateway keeps it.
type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Admin         bool         `json:"admin"`
	User          *models.User `json:"user,omitempty"`
	DeviceID      string       `json:"device_id,omitempty"`
}

func toSessionResponse(s models.Session) sessionResponse {
	return sessionResponse{
		Authenticated: s.IsAuthenticated(),
		Admin:         s.IsAdmin(),
		User:          s.User,
		DeviceID:      s.DeviceID,
	}
}

// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionResponse(h.services.CurrentSession()))
}

// @Summary      Log in
// @Description  Empty username or password is rejected before contacting the backend.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /session/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	sess, err := h.services.Login(c.Request.Context(), input.Username, input.Password, input.Admin)
	if err != nil {
		h.actionError(c, "session_login_failed", err, "username", input.Username, "admin", input.Admin)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

// @Summary      Log out
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *Handler) logout(c *gin.Context) {
	h.services.Logout()
	c.JSON(http.StatusOK, toSessionResponse(models.Session{}))
}
