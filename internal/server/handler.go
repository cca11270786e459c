package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/api"
	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/store"
	"github.com/abhisek/nudge/internal/widget"
)

func (srv *Server) mapHandlers() {
	srv.registerMiddlewares()
	srv.gin.GET(api.PathHealth, srv.healthCheck)

	srv.gin.GET(api.PathCards+"/:id", srv.getCard)
	srv.gin.GET(api.PathProgress, srv.listProgress)
	srv.gin.POST(api.PathProgress, srv.pushProgress)
	srv.gin.GET(api.PathNotifications, srv.listNotifications)
	srv.gin.POST(api.PathActions, srv.triggerAction)
}

func (srv *Server) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(srv.requestLogger())
}

// requestLogger tags each request with an ID and logs it once served.
func (srv *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(api.HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(api.HeaderRequestID, reqID)

		start := time.Now()
		c.Next()

		srv.l.Debug("served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", reqID),
			zap.Duration("latency", time.Since(start)))
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: msg})
}

func (srv *Server) getCard(c *gin.Context) {
	id := c.Param("id")
	cd, err := srv.cards.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		abort(c, http.StatusNotFound, "card "+id+" not found")
		return
	}
	if err != nil {
		srv.l.Error("load card", zap.String("interaction_id", id), zap.Error(err))
		abort(c, http.StatusInternalServerError, "could not load card")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", cd.Body)
}

func (srv *Server) pushProgress(c *gin.Context) {
	var p gateway.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		abort(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if p.UserID == "" || p.AppID == "" || p.InteractionID == "" {
		abort(c, http.StatusBadRequest, "userId, appId and interactionId are required")
		return
	}
	if !p.Kind.Valid() {
		abort(c, http.StatusBadRequest, "unknown kind "+string(p.Kind))
		return
	}
	st, err := ledger.ParseState(widget.ModeFor(p.Kind), p.State)
	if err != nil {
		abort(c, http.StatusBadRequest, "invalid state: "+err.Error())
		return
	}

	rec := &store.Progress{
		UserID:        p.UserID,
		AppID:         p.AppID,
		InteractionID: p.InteractionID,
		Kind:          string(p.Kind),
		State:         p.State,
		Completed:     st.IsCompleted(),
	}
	if err := srv.prog.Upsert(c.Request.Context(), rec); err != nil {
		srv.l.Error("save progress", zap.String("interaction_id", p.InteractionID), zap.Error(err))
		abort(c, http.StatusInternalServerError, "could not save progress")
		return
	}
	c.Status(http.StatusNoContent)
}

func sessionParams(c *gin.Context) (string, string, bool) {
	userID, appID := c.Query("user_id"), c.Query("app_id")
	if userID == "" || appID == "" {
		abort(c, http.StatusBadRequest, "user_id and app_id are required")
		return "", "", false
	}
	return userID, appID, true
}

func (srv *Server) listProgress(c *gin.Context) {
	userID, appID, ok := sessionParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recs, err := srv.prog.List(ctx, userID, appID)
	if err != nil {
		srv.l.Error("list progress", zap.String("user_id", userID), zap.Error(err))
		abort(c, http.StatusInternalServerError, "could not list progress")
		return
	}

	out := api.ListResponse[api.ProgressRecord]{Items: make([]api.ProgressRecord, 0, len(recs))}
	for _, r := range recs {
		pr := api.ProgressRecord{
			InteractionID: r.InteractionID,
			Kind:          card.Kind(r.Kind),
			Activity:      r.State,
			Completed:     r.Completed,
			UpdatedAt:     r.UpdatedAt,
		}
		if cd, err := srv.cards.Get(ctx, r.InteractionID); err == nil {
			pr.Title = cd.Title
		}
		out.Items = append(out.Items, pr)
	}
	c.JSON(http.StatusOK, out)
}

func (srv *Server) listNotifications(c *gin.Context) {
	userID, appID, ok := sessionParams(c)
	if !ok {
		return
	}

	notes, err := srv.notifs.ForUser(c.Request.Context(), userID, appID)
	if err != nil {
		srv.l.Error("list notifications", zap.String("user_id", userID), zap.Error(err))
		abort(c, http.StatusInternalServerError, "could not list notifications")
		return
	}

	out := api.ListResponse[api.Notification]{Items: make([]api.Notification, 0, len(notes))}
	for _, n := range notes {
		out.Items = append(out.Items, api.Notification{
			ID:       n.ID,
			Type:     card.Kind(n.Type),
			Title:    n.Title,
			ActionID: n.ActionID,
		})
	}
	c.JSON(http.StatusOK, out)
}

// triggerAction answers a user action with a fresh nudge addressed to that
// user: the first card they have not completed, or the first card when
// everything is done.
func (srv *Server) triggerAction(c *gin.Context) {
	var req api.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid action: "+err.Error())
		return
	}
	if req.UserID == "" || req.AppID == "" || req.Action == "" {
		abort(c, http.StatusBadRequest, "userId, appId and action are required")
		return
	}
	ctx := c.Request.Context()

	cd, err := srv.nextCard(ctx, req.UserID, req.AppID)
	if errors.Is(err, store.ErrNotFound) {
		abort(c, http.StatusNotFound, "no cards to nudge")
		return
	}
	if err != nil {
		srv.l.Error("pick card", zap.String("user_id", req.UserID), zap.Error(err))
		abort(c, http.StatusInternalServerError, "could not pick a card")
		return
	}

	title := cd.Title
	if title == "" {
		title = cd.InteractionID
	}
	n := &store.Notification{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		AppID:    req.AppID,
		Type:     cd.Kind,
		Title:    title,
		ActionID: cd.InteractionID,
	}
	if err := srv.notifs.Add(ctx, n); err != nil {
		srv.l.Error("save notification", zap.String("user_id", req.UserID), zap.Error(err))
		abort(c, http.StatusInternalServerError, "could not send nudge")
		return
	}

	srv.l.Info("action nudged",
		zap.String("user_id", req.UserID),
		zap.String("action", req.Action),
		zap.String("interaction_id", cd.InteractionID))
	c.JSON(http.StatusCreated, api.ActionResponse{
		Message: fmt.Sprintf("Nudge sent for %q", req.Action),
		Notification: api.Notification{
			ID:       n.ID,
			Type:     card.Kind(n.Type),
			Title:    n.Title,
			ActionID: n.ActionID,
		},
	})
}

func (srv *Server) nextCard(ctx context.Context, userID, appID string) (*store.Card, error) {
	cards, err := srv.cards.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, store.ErrNotFound
	}
	recs, err := srv.prog.List(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(recs))
	for _, r := range recs {
		done[r.InteractionID] = r.Completed
	}
	for _, cd := range cards {
		if !done[cd.InteractionID] {
			return cd, nil
		}
	}
	return cards[0], nil
}
