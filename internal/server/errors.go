package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/digestboard/internal/pipeline"
	"github.com/mohammad-safakhou/digestboard/internal/status"
	"github.com/mohammad-safakhou/digestboard/internal/synthos"
	"github.com/mohammad-safakhou/digestboard/models"
)

// Toast texts shown by the dashboard.
const (
	msgRemoteFailed       = "Failed to load data from the digest service"
	msgStorageUnavailable = "Local flag storage is unavailable"
	msgStorageFailed      = "Failed to save flag"
	msgThrottled          = "Refreshing too often, please wait a moment"
	msgStale              = "A newer refresh has already started"
	msgInvalidWindow      = "Start time must not be after end time"
	msgTopicNotFound      = "Topic not found"
	msgBadRequest         = "Invalid request"
	msgInternal           = "Internal error"

	msgMarkedRead     = "Marked as read"
	msgMarkedUnread   = "Marked as unread"
	msgBatchRead      = "Marked %d topics as read"
	msgFavorited      = "Added to favorites"
	msgUnfavorited    = "Removed from favorites"
	msgRefreshed      = "Loaded %d topics"
	msgStatusDegraded = "%s flags unavailable, showing none"
)

// apiError converts a domain error into an HTTP error carrying toast text.
func apiError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	code, msg := http.StatusInternalServerError, msgInternal
	switch {
	case errors.Is(err, pipeline.ErrThrottled):
		code, msg = http.StatusTooManyRequests, msgThrottled
	case errors.Is(err, pipeline.ErrStale):
		code, msg = http.StatusConflict, msgStale
	case errors.Is(err, pipeline.ErrInvalidWindow):
		code, msg = http.StatusBadRequest, msgInvalidWindow
	case errors.Is(err, synthos.ErrRemoteCallFailed):
		code, msg = http.StatusBadGateway, msgRemoteFailed
		var re *synthos.RemoteError
		if errors.As(err, &re) && re.Message != "" {
			msg = msgRemoteFailed + ": " + re.Message
		}
	case errors.Is(err, status.ErrEmptyTopicID):
		code, msg = http.StatusBadRequest, msgBadRequest
	case errors.Is(err, status.ErrStorageUnavailable):
		code, msg = http.StatusServiceUnavailable, msgStorageUnavailable
	case errors.Is(err, status.ErrStorage):
		code, msg = http.StatusInternalServerError, msgStorageFailed
	case errors.Is(err, models.ErrTopicNotFound):
		code, msg = http.StatusNotFound, msgTopicNotFound
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

// errorHandler writes failures in the envelope shape.
func errorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		he := apiError(err)
		msg := fmt.Sprint(he.Message)
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", he.Code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(he.Code, Envelope{Success: false, Message: msg})
		}
	}
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func okMsg(c echo.Context, data interface{}, msg string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: msg})
}
