package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"damagecontrol/internal/db"
	"damagecontrol/internal/domain"
	"damagecontrol/internal/events"
	"damagecontrol/internal/migrate"
	"damagecontrol/internal/repo"
)

func newRepo(t *testing.T) repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Name: "repo-" + uuid.NewString()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = migrate.Migrate(context.Background(), conn)
	require.NoError(t, err)

	r := repo.Repo{DB: conn}
	ctx := context.Background()
	require.NoError(t, r.InsertSimulator(ctx, nil, domain.Simulator{ID: "sim", Name: "Voyager"}))
	require.NoError(t, r.InsertDeck(ctx, nil, domain.Deck{ID: "d1", SimulatorID: "sim", Number: 1}))
	for _, rm := range []domain.Room{
		{ID: "a", SimulatorID: "sim", DeckID: "d1", Name: "Armory"},
		{ID: "b", SimulatorID: "sim", DeckID: "d1", Name: "Bridge"},
		{ID: "c", SimulatorID: "sim", DeckID: "d1", Name: "Cargo"},
	} {
		require.NoError(t, r.InsertRoom(ctx, nil, rm))
	}
	return r
}

func TestRoomsByIDKeepsOrder(t *testing.T) {
	r := newRepo(t)
	rooms, err := r.RoomsByID(context.Background(), []string{"c", "missing", "a", "c"})
	require.NoError(t, err)
	var ids []string
	for _, rm := range rooms {
		ids = append(ids, rm.ID)
	}
	assert.Equal(t, []string{"c", "a"}, ids)

	none, err := r.RoomsByID(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	sys := domain.NewSystem(domain.SystemParams{ID: "eng", SimulatorID: "sim", Name: "Engines", Locations: []string{"a"}})
	require.NoError(t, r.InsertSystem(ctx, nil, sys))

	byName, err := r.FindSystem(ctx, "sim", "Engines")
	require.NoError(t, err)
	assert.Equal(t, "eng", byName.ID)

	byID, err := r.FindSystem(ctx, "sim", "eng")
	require.NoError(t, err)
	assert.Equal(t, "Engines", byID.Name)

	_, err = r.FindSystem(ctx, "other-sim", "Engines")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sys.Break("hit", false, "")
	require.NoError(t, r.SaveSystem(ctx, nil, sys))
	damaged, err := r.ListSystems(ctx, repo.SystemFilters{SimulatorID: "sim", DamagedOnly: true})
	require.NoError(t, err)
	require.Len(t, damaged, 1)
	assert.True(t, damaged[0].Damage.Damaged)
}

func TestListSimulators(t *testing.T) {
	r := newRepo(t)
	sims, err := r.ListSimulators(context.Background())
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, "Voyager", sims[0].Name)

	_, err = r.GetSimulator(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveUnknownSystem(t *testing.T) {
	r := newRepo(t)
	sys := domain.NewSystem(domain.SystemParams{ID: "ghost", SimulatorID: "sim", Name: "Ghost"})
	err := r.SaveSystem(context.Background(), nil, sys)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventFilters(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	w := events.Writer{Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}
	tx, err := r.DB.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, w.Append(ctx, tx, events.SystemBreak, "sim", "system", "eng", "tester", events.EventPayload{"destroyed": false}))
	require.NoError(t, w.Append(ctx, tx, events.SystemRepair, "sim", "system", "eng", "tester", nil))
	require.NoError(t, w.Append(ctx, tx, events.SystemBreak, "sim", "system", "sensors", "tester", nil))
	require.NoError(t, tx.Commit())

	log, err := r.EventLog(ctx, repo.EventFilters{EntityID: "eng"})
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, events.SystemBreak, log[0].Type)
	assert.Equal(t, "2024-01-01T00:00:00Z", log[0].TS)

	latest, err := r.LatestEvents(ctx, repo.EventFilters{Type: events.SystemBreak, Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "sensors", latest[0].EntityID)
}
