package handlers

import (
	"encoding/json"
	"net/http"

	"irrigation_console/internal/service"

	"github.com/gin-gonic/gin"
)

// locationRequest accepts numbers or numeric strings, as typed into a form.
type locationRequest struct {
	Latitude  json.Number `json:"latitude" swaggertype:"number" example:"39.92"`
	Longitude json.Number `json:"longitude" swaggertype:"number" example:"116.41"`
}

// @Summary      Device location
// @Description  has_real_location is false while only the default placeholder is known.
// @Tags         location
// @Produce      json
// @Success      200  {object}  models.LocationConfig
// @Router       /api/v1/location [get]
func (h *Handler) getLocation(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Location.Get(c.Request.Context()))
}

// @Summary      Save device location
// @Description  Validated locally, then written to the backend; a forecast refresh follows.
// @Tags         location
// @Accept       json
// @Produce      json
// @Param        body  body      locationRequest  true  "coordinates"
// @Success      200   {object}  models.LocationConfig
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/location [post]
func (h *Handler) saveLocation(c *gin.Context) {
	var input locationRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	lat, err := service.ParseCoordinate(input.Latitude.String())
	if err != nil {
		h.actionError(c, "location_invalid", err)
		return
	}
	lon, err := service.ParseCoordinate(input.Longitude.String())
	if err != nil {
		h.actionError(c, "location_invalid", err)
		return
	}

	cfg, err := h.services.Location.Save(c.Request.Context(), lat, lon)
	if err != nil {
		h.actionError(c, "location_save_failed", err, "lat", lat, "lon", lon)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary      Five-day forecast
// @Description  Triggers a backend refresh, waits the settle delay and reads the cache. Falls back to a placeholder.
// @Tags         location
// @Produce      json
// @Success      200  {array}   models.WeatherForecast
// @Router       /api/v1/forecast [get]
func (h *Handler) getForecast(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Refresh(c.Request.Context(), nil))
}
