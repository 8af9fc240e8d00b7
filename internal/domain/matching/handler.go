package matching

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/pkg/errs"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/requests/:id/nearby-donors", h.NearbyDonors)
	api.GET("/requests/:id/prioritized-responses", h.PrioritizedResponses)
	api.GET("/donors/:id/matching-requests", h.RequestsForDonor)
}

// radiusParam parses an optional ?radius= query parameter in kilometers.
func radiusParam(c echo.Context) (float64, error) {
	raw := c.QueryParam("radius")
	if raw == "" {
		return 0, nil
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid radius")
	}
	return radius, nil
}

func (h *Handler) NearbyDonors(c echo.Context) error {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	radius, err := radiusParam(c)
	if err != nil {
		return err
	}
	result, err := h.svc.NearbyDonors(c.Request().Context(), requestID, radius)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) PrioritizedResponses(c echo.Context) error {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	ranked, err := h.svc.PrioritizedResponses(c.Request().Context(), requestID)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, ranked)
}

func (h *Handler) RequestsForDonor(c echo.Context) error {
	donorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid donor id")
	}
	radius, err := radiusParam(c)
	if err != nil {
		return err
	}
	matched, err := h.svc.RequestsForDonor(c.Request().Context(), donorID, radius)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, matched)
}
