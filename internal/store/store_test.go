package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownemmanuel/proassist/internal/domain"
	"github.com/crownemmanuel/proassist/internal/wire"
)

func newTestStore() (*Store, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return New(clock), clock
}

func TestUpsertSession_CreateThenReplace(t *testing.T) {
	st, clock := newTestStore()

	created, isNew := st.UpsertSession("s1", "Opening", "Welcome")
	require.True(t, isNew)
	assert.Equal(t, "s1", created.ID)
	assert.Equal(t, "Opening", created.Name)
	assert.Equal(t, clock.Now(), created.CreatedAt)
	require.Len(t, created.Slides, 1)

	clock.Advance(time.Minute)

	replaced, isNew := st.UpsertSession("s1", "Opening", "Welcome\nAgain")
	require.False(t, isNew)
	// CreatedAt is fixed at creation and survives replacement.
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)
	require.Len(t, replaced.Slides, 1)
	assert.Len(t, replaced.Slides[0].Items, 2)
}

func TestUpsertSession_IdenticalUpsertsYieldIdenticalSlides(t *testing.T) {
	st, _ := newTestStore()

	first, _ := st.UpsertSession("s1", "Sermon", "Heading\n\tPoint A\n\tPoint B")
	second, isNew := st.UpsertSession("s1", "Sermon", "Heading\n\tPoint A\n\tPoint B")

	assert.False(t, isNew)
	assert.Equal(t, first.Slides, second.Slides)
}

func TestDeleteSession(t *testing.T) {
	st, _ := newTestStore()
	st.UpsertSession("s1", "a", "x")

	assert.True(t, st.DeleteSession("s1"))
	assert.False(t, st.DeleteSession("s1"))

	_, ok := st.Session("s1")
	assert.False(t, ok)
}

func TestListSessions_OrderedByCreation(t *testing.T) {
	st, clock := newTestStore()

	st.UpsertSession("b", "second batch", "x")
	st.UpsertSession("a", "second batch", "x")
	clock.Advance(time.Second)
	st.UpsertSession("c", "later", "x")

	ids := make([]string, 0, 3)
	for _, s := range st.ListSessions() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestUpdateSchedule_ClearsInvalidIndex(t *testing.T) {
	st, _ := newTestStore()
	items := []domain.ScheduleItem{
		{ID: "1", SessionLabel: "Worship", StartTime: "09:00", EndTime: "09:30", Duration: 30},
		{ID: "2", SessionLabel: "Sermon", StartTime: "09:30", EndTime: "10:15", Duration: 45, Minister: "Rev. Adams"},
	}

	one := 1
	state := st.UpdateSchedule(items, &one)
	require.NotNil(t, state.CurrentSessionIndex)
	assert.Equal(t, 1, *state.CurrentSessionIndex)

	five := 5
	state = st.UpdateSchedule(items, &five)
	assert.Nil(t, state.CurrentSessionIndex)

	neg := -1
	state = st.UpdateSchedule(items, &neg)
	assert.Nil(t, state.CurrentSessionIndex)
}

func TestUpdateTimerAndDisplay_WholeRecordReplace(t *testing.T) {
	st, _ := newTestStore()

	st.UpdateTimer(domain.TimerState{IsRunning: true, SecondsLeft: 300, Label: "Sermon"})
	st.UpdateTimer(domain.TimerState{IsRunning: false, SecondsLeft: 0, IsOverrun: true})

	timer := st.Timer()
	assert.False(t, timer.IsRunning)
	assert.True(t, timer.IsOverrun)
	// Whole-record replace: the old label does not linger.
	assert.Empty(t, timer.Label)

	st.UpdateDisplay(domain.DisplayState{
		Scripture:          domain.Scripture{VerseText: "In the beginning...", Reference: "Gen 1:1"},
		AuxiliarySlideText: []string{"Announcements"},
	})
	st.UpdateDisplay(domain.DisplayState{
		Scripture: domain.Scripture{VerseText: "For God so loved...", Reference: "John 3:16"},
	})

	display := st.Display()
	assert.Equal(t, "John 3:16", display.Scripture.Reference)
	assert.Empty(t, display.AuxiliarySlideText)
}

func TestPinnedClients(t *testing.T) {
	st, clock := newTestStore()

	pin := st.PinClient("client-1", "Front desk")
	assert.Equal(t, clock.Now(), pin.PinnedAt)

	clock.Advance(time.Minute)
	repinned := st.PinClient("client-1", "Stage left")
	// Label refreshes, pin time does not.
	assert.Equal(t, "Stage left", repinned.Label)
	assert.Equal(t, pin.PinnedAt, repinned.PinnedAt)

	assert.Len(t, st.PinnedClients(), 1)
	assert.True(t, st.UnpinClient("client-1"))
	assert.False(t, st.UnpinClient("client-1"))
	assert.Empty(t, st.PinnedClients())
}

func TestSnapshotForJoin_Schedule(t *testing.T) {
	st, _ := newTestStore()
	zero := 0
	st.UpdateSchedule([]domain.ScheduleItem{{ID: "1", SessionLabel: "Worship"}}, &zero)

	data, err := st.SnapshotForJoin(domain.TopicSchedule)
	require.NoError(t, err)

	var update wire.ScheduleUpdate
	require.NoError(t, json.Unmarshal(data, &update))
	assert.Equal(t, wire.TypeScheduleUpdate, update.Type)
	require.Len(t, update.Schedule, 1)
	require.NotNil(t, update.CurrentSessionIndex)
	assert.Equal(t, 0, *update.CurrentSessionIndex)
}

func TestSnapshotForJoin_UnknownTopic(t *testing.T) {
	st, _ := newTestStore()
	_, err := st.SnapshotForJoin(domain.Topic("bogus"))
	assert.Error(t, err)
}

func TestSnapshotSession(t *testing.T) {
	st, _ := newTestStore()
	st.UpsertSession("s1", "Sermon", "Heading\n\tPoint A")

	data, err := st.SnapshotSession("s1")
	require.NoError(t, err)

	var update wire.SlidesUpdate
	require.NoError(t, json.Unmarshal(data, &update))
	assert.Equal(t, wire.TypeSlidesUpdate, update.Type)
	assert.Equal(t, "s1", update.SessionID)
	assert.Equal(t, "Sermon", update.Name)
	assert.Len(t, update.Slides, 2)

	_, err = st.SnapshotSession("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSnapshotDeterminism(t *testing.T) {
	st, _ := newTestStore()
	st.UpsertSession("s1", "Sermon", "Heading\n\tPoint A\n\tPoint B")

	first, err := st.SnapshotSession("s1")
	require.NoError(t, err)
	second, err := st.SnapshotSession("s1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
