package widget

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ledger"
)

func lastChecklist(t *testing.T, p *recordingPusher) ledger.ChecklistState {
	t.Helper()
	var s ledger.ChecklistState
	require.NoError(t, json.Unmarshal(p.last(t).State, &s))
	return s
}

func TestChecklist_PercentScenario(t *testing.T) {
	p := &recordingPusher{}
	c := NewChecklist(checklistDoc(5), testOptions(p))

	c.Toggle("task 1")
	c.Toggle("task 2")
	c.Toggle("task 3")
	assert.InDelta(t, 60.0, c.Progress().Percent, 0.001)

	c.Toggle("task 2")
	assert.InDelta(t, 40.0, c.Progress().Percent, 0.001)
	assert.Equal(t, 3, c.Progress().Remaining)

	assert.Equal(t, 4, p.count())
	st := lastChecklist(t, p)
	assert.False(t, st.Completed)
	assert.Equal(t, ledger.ItemState{ItemID: "task 2", Checked: false}, st.Items[1])
	assert.Equal(t, ledger.ItemState{ItemID: "task 3", Checked: true}, st.Items[2])
}

func TestChecklist_ToggleTwiceRestores(t *testing.T) {
	at := time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC)
	c := NewChecklist(checklistDoc(2), Options{Clock: func() time.Time { return at }})

	res := c.Toggle("task 1")
	assert.True(t, res.Checked)
	assert.Equal(t, at, c.CheckedAt("task 1"))

	res = c.Toggle("task 1")
	assert.True(t, res.Toggled)
	assert.False(t, res.Checked)
	assert.False(t, c.IsChecked("task 1"))
	assert.True(t, c.CheckedAt("task 1").IsZero())
}

func TestChecklist_AllDone(t *testing.T) {
	p := &recordingPusher{}
	c := NewChecklist(checklistDoc(2), testOptions(p))

	assert.False(t, c.Toggle("task 1").AllDone)
	assert.True(t, c.Toggle("task 2").AllDone)
	assert.True(t, c.IsComplete())
	assert.True(t, p.last(t).Completed)

	// Never locks.
	assert.True(t, c.Toggle("task 1").Toggled)
	assert.False(t, c.IsComplete())
}

func TestChecklist_UnknownItemIsNoop(t *testing.T) {
	p := &recordingPusher{}
	c := NewChecklist(checklistDoc(2), testOptions(p))
	assert.False(t, c.Toggle("nope").Toggled)
	assert.Equal(t, 0, p.count())
}

func TestChecklist_InitialCompletedFlags(t *testing.T) {
	doc := checklistDoc(3)
	doc.Tasks[1].Completed = true
	c := NewChecklist(doc, Options{})
	assert.True(t, c.IsChecked("task 2"))
	assert.Equal(t, 1, c.Progress().Done)
}

func TestChecklist_Reset(t *testing.T) {
	p := &recordingPusher{}
	c := NewChecklist(checklistDoc(3), testOptions(p))
	c.Toggle("task 1")
	c.Toggle("task 3")

	c.Reset()
	assert.Equal(t, 0, c.Progress().Done)
	st := lastChecklist(t, p)
	for _, it := range st.Items {
		assert.False(t, it.Checked)
	}
}

func TestChecklist_AddItem(t *testing.T) {
	p := &recordingPusher{}
	c := NewChecklist(checklistDoc(2), testOptions(p))
	c.Toggle("task 1")

	require.NoError(t, c.AddItem(card.ChecklistItem{Description: "Drink water", Completed: true}))
	assert.Equal(t, 3, c.Progress().Total)
	assert.InDelta(t, 100.0/3, c.Progress().Percent, 0.001)
	assert.False(t, c.IsChecked("Drink water"), "added items start unchecked")
	assert.Len(t, lastChecklist(t, p).Items, 3)

	err := c.AddItem(card.ChecklistItem{Description: "task 1"})
	assert.ErrorIs(t, err, ErrDuplicateItem)
	assert.Len(t, c.Items(), 3)
}

type stubGenerator struct {
	item card.ChecklistItem
	err  error
	req  ItemRequest
}

func (s *stubGenerator) GenerateItem(_ context.Context, req ItemRequest) (card.ChecklistItem, error) {
	s.req = req
	return s.item, s.err
}

func TestChecklist_RequestItem(t *testing.T) {
	gen := &stubGenerator{item: card.ChecklistItem{
		ID:            "Stretch for 5 minutes",
		Description:   "Stretch for 5 minutes",
		EstimatedTime: "5 min",
		Rationale:     "Loosens the back after sleep.",
	}}
	c := NewChecklist(checklistDoc(2), Options{Generator: gen})

	item, err := c.RequestItem(context.Background(), "something for my back")
	require.NoError(t, err)
	assert.Equal(t, "Stretch for 5 minutes", item.ID)
	assert.Equal(t, "something for my back", gen.req.Prompt)
	assert.Equal(t, []string{"task 1", "task 2"}, gen.req.Existing)
	assert.Equal(t, 3, c.Progress().Total)
}

func TestChecklist_RequestItemFailureLeavesStateAlone(t *testing.T) {
	p := &recordingPusher{}
	opts := testOptions(p)
	opts.Generator = &stubGenerator{err: errors.New("provider down")}
	c := NewChecklist(checklistDoc(2), opts)

	_, err := c.RequestItem(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, 2, c.Progress().Total)
	assert.Equal(t, 0, p.count())

	c2 := NewChecklist(checklistDoc(1), Options{})
	_, err = c2.RequestItem(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoGenerator)
}

func TestChecklist_ApplyProgress(t *testing.T) {
	c := NewChecklist(checklistDoc(3), Options{})
	err := c.ApplyProgress(&ledger.ChecklistState{Items: []ledger.ItemState{
		{ItemID: "task 1", Checked: true},
		{ItemID: "task 2", Checked: false},
		{ItemID: "ghost", Checked: true},
	}})
	require.NoError(t, err)
	assert.True(t, c.IsChecked("task 1"))
	assert.Equal(t, 1, c.Progress().Done)
}

func TestChecklist_ClosedIsInert(t *testing.T) {
	p := &recordingPusher{}
	c := NewChecklist(checklistDoc(2), testOptions(p))
	c.Close()

	assert.False(t, c.Toggle("task 1").Toggled)
	c.Reset()
	assert.ErrorIs(t, c.AddItem(card.ChecklistItem{Description: "x"}), ErrClosed)
	assert.Equal(t, 0, p.count())
}
