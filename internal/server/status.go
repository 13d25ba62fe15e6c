package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/digestboard/internal/status"
)

// StatusHandler exposes the read and favorite flag stores.
type StatusHandler struct {
	Flags status.Pair
}

// Register mounts the flag routes. topics is the /api/topics group.
func (h *StatusHandler) Register(api *echo.Group, topics *echo.Group) {
	api.GET("/status", h.all)
	topics.POST("/read", h.markManyRead)
	topics.POST("/:id/read", h.markRead)
	topics.DELETE("/:id/read", h.markUnread)
	topics.POST("/:id/favorite", h.favorite)
	topics.DELETE("/:id/favorite", h.unfavorite)
	topics.POST("/:id/favorite/toggle", h.toggleFavorite)
}

func (h *StatusHandler) all(c echo.Context) error {
	flags, warnings := loadFlags(c.Request().Context(), h.Flags)
	return c.JSON(http.StatusOK, Envelope{
		Success:  true,
		Data:     StatusResponse{Read: flags.Read, Favorite: flags.Favorite},
		Warnings: warnings,
	})
}

func (h *StatusHandler) markRead(c echo.Context) error {
	id := c.Param("id")
	if err := h.Flags.Read.Set(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	return okMsg(c, FlagResponse{TopicID: id, Flag: "read", Value: true}, msgMarkedRead)
}

func (h *StatusHandler) markUnread(c echo.Context) error {
	id := c.Param("id")
	if err := h.Flags.Read.Unset(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	return okMsg(c, FlagResponse{TopicID: id, Flag: "read", Value: false}, msgMarkedUnread)
}

func (h *StatusHandler) markManyRead(c echo.Context) error {
	var req BatchReadRequest
	if err := c.Bind(&req); err != nil || len(req.TopicIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadRequest+": topicIds required")
	}
	if err := h.Flags.Read.SetMany(c.Request().Context(), req.TopicIDs); err != nil {
		return apiError(err)
	}
	return okMsg(c, req, fmt.Sprintf(msgBatchRead, len(req.TopicIDs)))
}

func (h *StatusHandler) favorite(c echo.Context) error {
	id := c.Param("id")
	if err := h.Flags.Favorite.Set(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	return okMsg(c, FlagResponse{TopicID: id, Flag: "favorite", Value: true}, msgFavorited)
}

func (h *StatusHandler) unfavorite(c echo.Context) error {
	id := c.Param("id")
	if err := h.Flags.Favorite.Unset(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	return okMsg(c, FlagResponse{TopicID: id, Flag: "favorite", Value: false}, msgUnfavorited)
}

func (h *StatusHandler) toggleFavorite(c echo.Context) error {
	id := c.Param("id")
	v, err := h.Flags.Favorite.Toggle(c.Request().Context(), id)
	if err != nil {
		return apiError(err)
	}
	msg := msgUnfavorited
	if v {
		msg = msgFavorited
	}
	return okMsg(c, FlagResponse{TopicID: id, Flag: "favorite", Value: v}, msg)
}
