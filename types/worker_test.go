package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	require.True(t, LevelSenior.AtLeast(LevelMid))
	require.True(t, LevelMid.AtLeast(LevelMid))
	require.False(t, LevelJunior.AtLeast(LevelMid))
	require.False(t, Level("principal").Valid())
	require.False(t, Level("principal").AtLeast(LevelJunior))
}

func TestWorker_Capacity(t *testing.T) {
	w := Worker{ID: "a", Level: LevelMid, MaxCapacity: 50, CurrentLoad: 46}

	require.True(t, w.HasCapacity())
	require.Equal(t, 4, w.AvailableCapacity())
	require.Equal(t, 92, w.UtilizationPercent())

	full := Worker{ID: "b", Level: LevelMid, MaxCapacity: 40, CurrentLoad: 40}
	require.False(t, full.HasCapacity())
	require.Equal(t, 0, full.AvailableCapacity())

	none := Worker{ID: "c", Level: LevelJunior}
	require.Equal(t, 100, none.UtilizationPercent())
}

func TestWorker_Validate(t *testing.T) {
	require.NoError(t, Worker{ID: "a", Level: LevelSenior, MaxCapacity: 1}.Validate())
	require.ErrorIs(t, Worker{Level: LevelSenior}.Validate(), ErrInvalidWorker)
	require.ErrorIs(t, Worker{ID: "a", Level: "boss"}.Validate(), ErrInvalidWorker)
	require.ErrorIs(t, Worker{ID: "a", Level: LevelMid, MaxCapacity: -1}.Validate(), ErrInvalidWorker)
}

func TestWorker_CloneIsDeep(t *testing.T) {
	w := Worker{ID: "a", Specialties: []string{"Condo"}}
	c := w.Clone()
	c.Specialties[0] = "Land"

	require.Equal(t, "Condo", w.Specialties[0])
}

func TestRoster(t *testing.T) {
	r := NewRoster([]Worker{
		{ID: "a", Level: LevelSenior, Territories: []string{"North County", "Central"}},
		{ID: "b", Level: LevelMid, Territories: []string{"South County"}},
		{ID: "c", Level: LevelSenior, Territories: []string{"Central"}},
		{ID: "a", Level: LevelJunior},
	})

	require.Equal(t, 3, r.Len())

	a, ok := r.Worker("a")
	require.True(t, ok)
	require.Equal(t, LevelSenior, a.Level, "later duplicates are ignored")

	_, ok = r.Worker("zzz")
	require.False(t, ok)

	central := r.FindByTerritory("Central")
	require.Len(t, central, 2)
	require.Equal(t, "a", central[0].ID)
	require.Equal(t, "c", central[1].ID)

	require.Len(t, r.FindByLevel(LevelSenior), 2)
	require.Empty(t, r.FindByLevel(LevelJunior))
	require.Empty(t, r.FindByTerritory("Nowhere"))
}
