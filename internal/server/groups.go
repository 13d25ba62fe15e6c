package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/digestboard/models"
)

// Remote is the part of the data service the handlers call directly.
type Remote interface {
	Health(ctx context.Context) error
	GroupDetails(ctx context.Context) (map[string]models.Group, error)
	DigestResultByTopicID(ctx context.Context, topicID string) (models.Digest, error)
	ChatMessagesByGroupID(ctx context.Context, groupID string, start, end int64) ([]models.ChatMessage, error)
	DigestResultsBySessionIDs(ctx context.Context, sessionIDs []string) ([]models.SessionDigests, error)
	IsSessionSummarized(ctx context.Context, sessionID string) (bool, error)
}

// GroupsHandler passes group and chat lookups through to the data service.
type GroupsHandler struct {
	Remote Remote
}

func (h *GroupsHandler) Register(g *echo.Group) {
	g.GET("/groups", h.groups)
	g.GET("/chat-messages", h.chatMessages)
	g.GET("/health/remote", h.health)
	g.GET("/sessions/:id/digest", h.sessionDigest)
}

func (h *GroupsHandler) groups(c echo.Context) error {
	groups, err := h.Remote.GroupDetails(c.Request().Context())
	if err != nil {
		return apiError(err)
	}
	if groups == nil {
		groups = map[string]models.Group{}
	}
	return ok(c, groups)
}

func (h *GroupsHandler) chatMessages(c echo.Context) error {
	groupID := strings.TrimSpace(c.QueryParam("groupId"))
	if groupID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadRequest+": groupId required")
	}
	start, err1 := strconv.ParseInt(c.QueryParam("start"), 10, 64)
	end, err2 := strconv.ParseInt(c.QueryParam("end"), 10, 64)
	if err1 != nil || err2 != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadRequest+": start and end must be epoch milliseconds")
	}
	if start > end {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidWindow)
	}
	msgs, err := h.Remote.ChatMessagesByGroupID(c.Request().Context(), groupID, start, end)
	if err != nil {
		return apiError(err)
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return ok(c, msgs)
}

// sessionDigest returns one session's digests and whether its summary job has run.
func (h *GroupsHandler) sessionDigest(c echo.Context) error {
	ctx := c.Request().Context()
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadRequest+": session id required")
	}
	results, err := h.Remote.DigestResultsBySessionIDs(ctx, []string{id})
	if err != nil {
		return apiError(err)
	}
	summarized, err := h.Remote.IsSessionSummarized(ctx, id)
	if err != nil {
		return apiError(err)
	}
	out := SessionDigestResponse{SessionID: id, Digests: []models.Digest{}, IsSummarized: summarized}
	for _, r := range results {
		if r.SessionID == id {
			out.Digests = append(out.Digests, r.Result...)
		}
	}
	return ok(c, out)
}

func (h *GroupsHandler) health(c echo.Context) error {
	if err := h.Remote.Health(c.Request().Context()); err != nil {
		return apiError(err)
	}
	return ok(c, map[string]string{"remote": "ok"})
}
