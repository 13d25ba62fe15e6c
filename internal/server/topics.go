package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/digestboard/config"
	"github.com/mohammad-safakhou/digestboard/internal/filter"
	"github.com/mohammad-safakhou/digestboard/internal/pipeline"
	"github.com/mohammad-safakhou/digestboard/internal/status"
	"github.com/mohammad-safakhou/digestboard/models"
)

// TopicsHandler serves the aggregated topic list and triggers refreshes.
type TopicsHandler struct {
	Loader        *pipeline.Loader
	Flags         status.Pair
	Remote        Remote
	View          config.ViewConfig
	DefaultWindow time.Duration
	Now           func() time.Time
}

func (h *TopicsHandler) Register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("/refresh", h.refresh)
	g.GET("/:id/text", h.text)
	g.GET("/:id/highlight", h.highlight)
}

func (h *TopicsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *TopicsHandler) defaultWindow() models.Window {
	span := h.DefaultWindow
	if span <= 0 {
		span = 24 * time.Hour
	}
	return pipeline.DefaultWindow(h.now(), span)
}

// criteriaFromQuery reads filter state; malformed numbers are a bad request.
func (h *TopicsHandler) criteriaFromQuery(c echo.Context) (filter.Criteria, error) {
	cr := filter.DefaultCriteria()
	if h.View.PageSize > 0 {
		cr.PageSize = h.View.PageSize
	}
	cr.Query = c.QueryParam("q")

	var err error
	parseBool := func(name string, dst *bool) {
		if v := c.QueryParam(name); v != "" && err == nil {
			*dst, err = strconv.ParseBool(v)
		}
	}
	parseInt := func(name string, dst *int64) {
		if v := c.QueryParam(name); v != "" && err == nil {
			*dst, err = strconv.ParseInt(v, 10, 64)
		}
	}
	parseFloat := func(name string, dst **float64) {
		if v := c.QueryParam(name); v != "" && err == nil {
			var f float64
			if f, err = strconv.ParseFloat(v, 64); err == nil {
				*dst = &f
			}
		}
	}
	parseBool("unread", &cr.UnreadOnly)
	parseBool("favorites", &cr.FavoritesOnly)
	parseBool("sort", &cr.SortByInterest)
	parseInt("from", &cr.From)
	parseInt("to", &cr.To)
	parseFloat("scoreMin", &cr.ScoreMin)
	parseFloat("scoreMax", &cr.ScoreMax)
	var page, size int64
	parseInt("page", &page)
	parseInt("pageSize", &size)
	if err != nil {
		return cr, echo.NewHTTPError(http.StatusBadRequest, msgBadRequest+": "+err.Error())
	}
	if page > 0 {
		cr.Page = int(page)
	}
	if size > 0 {
		cr.PageSize = int(size)
	}
	return cr, nil
}

// loadFlags reads both flag stores. A failing store degrades to no flags plus a warning.
func loadFlags(ctx context.Context, pair status.Pair) (filter.Flags, []string) {
	var warnings []string
	read, err := pair.Read.All(ctx)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf(msgStatusDegraded, "Read"))
	}
	fav, err := pair.Favorite.All(ctx)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf(msgStatusDegraded, "Favorite"))
	}
	return filter.Flags{Read: read, Favorite: fav}, warnings
}

func (h *TopicsHandler) snapshot(ctx context.Context) (pipeline.Result, error) {
	board := h.Loader.Board()
	if res, ok := board.Snapshot(); ok {
		return res, nil
	}
	res, err := h.Loader.Load(ctx, h.defaultWindow())
	if err == nil {
		return res, nil
	}
	if errors.Is(err, pipeline.ErrThrottled) || errors.Is(err, pipeline.ErrStale) {
		res, _ = board.Snapshot()
		return res, nil
	}
	return pipeline.Result{}, err
}

func (h *TopicsHandler) list(c echo.Context) error {
	ctx := c.Request().Context()
	cr, err := h.criteriaFromQuery(c)
	if err != nil {
		return err
	}
	res, err := h.snapshot(ctx)
	if err != nil {
		return apiError(err)
	}
	flags, warnings := loadFlags(ctx, h.Flags)
	page := filter.View(res.Topics, cr, flags, res.Scores)
	topicsVisible.Set(float64(page.Total))

	board := h.Loader.Board()
	out := TopicsResponse{Page: page, Window: res.Window, FetchedAt: res.FetchedAt, Loading: board.Loading()}
	if lastErr := board.LastError(); lastErr != nil {
		out.LastError = fmt.Sprint(apiError(lastErr).Message)
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: out, Warnings: warnings})
}

func (h *TopicsHandler) refresh(c echo.Context) error {
	var req RefreshRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, msgBadRequest)
		}
	}
	w := models.Window{Start: req.Start, End: req.End}
	if req.Start == 0 && req.End == 0 {
		w = h.defaultWindow()
	}
	res, err := h.Loader.Load(c.Request().Context(), w)
	if err != nil {
		return apiError(err)
	}
	out := RefreshResponse{
		RunID:      res.RunID,
		Generation: res.Generation,
		Window:     res.Window,
		Topics:     len(res.Topics),
		Scored:     len(res.Scores),
		FetchedAt:  res.FetchedAt,
	}
	return okMsg(c, out, fmt.Sprintf(msgRefreshed, len(res.Topics)))
}

// findTopic looks in the current board first, then asks the remote service.
func (h *TopicsHandler) findTopic(ctx context.Context, id string) (models.Topic, error) {
	if res, ok := h.Loader.Board().Snapshot(); ok {
		for _, t := range res.Topics {
			if t.TopicID == id {
				return t, nil
			}
		}
	}
	if h.Remote == nil {
		return models.Topic{}, models.ErrTopicNotFound
	}
	d, err := h.Remote.DigestResultByTopicID(ctx, id)
	if err != nil {
		return models.Topic{}, err
	}
	if d.TopicID == "" {
		return models.Topic{}, models.ErrTopicNotFound
	}
	return models.Topic{TopicID: d.TopicID, SessionID: d.SessionID, Title: d.Topic, Contributors: d.Contributors, Detail: d.Detail}, nil
}

func (h *TopicsHandler) text(c echo.Context) error {
	t, err := h.findTopic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apiError(err)
	}
	return ok(c, TextResponse{TopicID: t.TopicID, Text: t.PlainText()})
}

func (h *TopicsHandler) highlight(c echo.Context) error {
	t, err := h.findTopic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apiError(err)
	}
	names, _ := models.ParseContributors(t.Contributors)
	if names == nil {
		names = []string{}
	}
	return ok(c, HighlightResponse{TopicID: t.TopicID, Contributors: names, Segments: filter.Highlight(t.Detail, names...)})
}
