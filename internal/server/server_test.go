package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/api"
	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/session"
	"github.com/abhisek/nudge/internal/store"
)

const checklistJSON = `{"id":"morning","type":"checklist","title":"Morning","items":[
	{"text":"Stretch"},{"text":"Walk"}
]}`

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv, err := New(zap.NewNop(), Config{Store: s, Mode: gin.TestMode})
	require.NoError(t, err)
	return srv, s
}

func serve(t *testing.T, srv *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(zap.NewNop(), Config{Mode: gin.TestMode})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	w := serve(t, srv, http.MethodGet, api.PathHealth, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get(api.HeaderRequestID))
}

func TestGetCard(t *testing.T) {
	srv, s := newTestServer(t)
	require.NoError(t, s.CardRepo().Put(context.Background(), &store.Card{
		InteractionID: "morning", Kind: "checklist", Title: "Morning", Body: []byte(checklistJSON),
	}))

	w := serve(t, srv, http.MethodGet, api.PathCards+"/morning?user_id=u&app_id=a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := card.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Stretch", "Walk"}, doc.ItemIDs())

	w = serve(t, srv, http.MethodGet, api.PathCards+"/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPushProgress_LastWriteWins(t *testing.T) {
	srv, _ := newTestServer(t)
	sess := session.Session{UserID: "u1", AppID: "app"}

	push := func(checked bool) {
		t.Helper()
		st := &ledger.ChecklistState{
			Items:     []ledger.ItemState{{ItemID: "Stretch", Checked: checked}, {ItemID: "Walk", Checked: checked}},
			Completed: checked,
		}
		p, err := gateway.NewPayload(sess, "morning", card.KindChecklist, st)
		require.NoError(t, err)
		body, err := json.Marshal(p)
		require.NoError(t, err)
		w := serve(t, srv, http.MethodPost, api.PathProgress, body)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	}
	push(false)
	push(true)

	w := serve(t, srv, http.MethodGet, api.PathProgress+"?user_id=u1&app_id=app", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ListResponse[api.ProgressRecord]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Completed)

	st, err := ledger.ParseState(ledger.Toggle, resp.Items[0].Activity)
	require.NoError(t, err)
	assert.True(t, st.IsCompleted())
}

func TestPushProgress_RejectsBadPayloads(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing user", `{"appId":"a","interactionId":"x","kind":"quiz","state":{}}`},
		{"unknown kind", `{"userId":"u","appId":"a","interactionId":"x","kind":"poll","state":{}}`},
		{"bad state", `{"userId":"u","appId":"a","interactionId":"x","kind":"quiz","state":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, srv, http.MethodPost, api.PathProgress, []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var er api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
			assert.NotEmpty(t, er.Error)
		})
	}
}

func TestListRequiresSession(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{api.PathProgress, api.PathNotifications} {
		w := serve(t, srv, http.MethodGet, path+"?user_id=u1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestSeed(t *testing.T) {
	srv, s := newTestServer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "morning.json"), []byte(checklistJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "evening.md"),
		[]byte("# Evening\n\n- [ ] Read\n- [x] Dim lights\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "focus.deck.json"),
		[]byte(`{"title":"Focus","cards":[{"title":"Single-task","content":"Close other tabs."}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"type":"quiz"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	res, err := Seed(context.Background(), s, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Cards: 3, Skipped: 1}, res)

	w := serve(t, srv, http.MethodGet, api.PathNotifications+"?user_id=anyone&app_id=app", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.ListResponse[api.Notification]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)

	ids := make([]string, 0, len(resp.Items))
	for _, n := range resp.Items {
		ids = append(ids, n.ActionID)
	}
	assert.ElementsMatch(t, []string{"evening", "focus", "morning"}, ids)

	w = serve(t, srv, http.MethodGet, api.PathCards+"/evening", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := card.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Evening", doc.Title)
	assert.Equal(t, []string{"Read", "Dim lights"}, doc.ItemIDs())

	w = serve(t, srv, http.MethodGet, api.PathCards+"/focus", nil)
	require.Equal(t, http.StatusOK, w.Code)
	deck, err := card.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, card.KindFlashcards, deck.Kind)
	require.Len(t, deck.Cards, 1)
	assert.Equal(t, "Single-task", deck.Cards[0].Front.Title)
}

func TestTriggerAction(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	w := serve(t, srv, http.MethodPost, api.PathActions, []byte(`{"userId":"u1","appId":"app","action":"Completed one stack!"}`))
	assert.Equal(t, http.StatusNotFound, w.Code, "no cards yet")

	for _, id := range []string{"a_done", "b_next"} {
		require.NoError(t, s.CardRepo().Put(ctx, &store.Card{
			InteractionID: id, Kind: "checklist", Title: "Card " + id, Body: []byte(checklistJSON),
		}))
	}
	require.NoError(t, s.ProgressRepo().Upsert(ctx, &store.Progress{
		UserID: "u1", AppID: "app", InteractionID: "a_done", Kind: "checklist",
		State: []byte(`{}`), Completed: true,
	}))

	w = serve(t, srv, http.MethodPost, api.PathActions, []byte(`{"userId":"u1","appId":"app","action":"Completed one stack!"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp api.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b_next", resp.Notification.ActionID)
	assert.Contains(t, resp.Message, "Completed one stack!")

	w = serve(t, srv, http.MethodGet, api.PathNotifications+"?user_id=u1&app_id=app", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine api.ListResponse[api.Notification]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine.Items, 1)
	assert.Equal(t, resp.Notification.ID, mine.Items[0].ID)

	w = serve(t, srv, http.MethodGet, api.PathNotifications+"?user_id=u2&app_id=app", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var theirs api.ListResponse[api.Notification]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &theirs))
	assert.Empty(t, theirs.Items)
}

func TestTriggerAction_RejectsIncompleteRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, body := range []string{`{`, `{"userId":"u1","appId":"app"}`, `{"appId":"app","action":"x"}`} {
		w := serve(t, srv, http.MethodPost, api.PathActions, []byte(body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}
