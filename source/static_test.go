package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	routetest "github.com/arloliu/leadroute/testing"
	"github.com/arloliu/leadroute/types"
)

func TestStatic_ListWorkersReturnsCopy(t *testing.T) {
	src := NewStatic(routetest.SampleRoster())

	workers, err := src.ListWorkers(context.Background())
	require.NoError(t, err)
	require.Len(t, workers, 4)

	workers[0].Languages[0] = "Klingon"
	workers[0].CurrentLoad = 999

	again, _ := src.ListWorkers(context.Background())
	require.Equal(t, "English", again[0].Languages[0])
	require.Equal(t, 10, again[0].CurrentLoad)
}

func TestStatic_Update(t *testing.T) {
	src := NewStatic(routetest.SampleRoster())
	src.Update([]types.Worker{{ID: "solo", Level: types.LevelMid, MaxCapacity: 1}})

	workers, err := src.ListWorkers(context.Background())
	require.NoError(t, err)
	require.Len(t, workers, 1)
	require.Equal(t, "solo", workers[0].ID)
}

func TestLoadStaticFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers:
  - id: agent_001
    name: John Smith
    level: senior
    specialties: [Single Family]
    languages: [English, Spanish]
    territories: [North County]
    maxCapacity: 50
    currentLoad: 10
  - id: agent_002
    name: Jane Doe
    level: mid
    maxCapacity: 40
`), 0o600))

	src, err := LoadStaticFile(path)
	require.NoError(t, err)

	workers, _ := src.ListWorkers(context.Background())
	require.Len(t, workers, 2)
	require.Equal(t, types.LevelSenior, workers[0].Level)
	require.Equal(t, []string{"English", "Spanish"}, workers[0].Languages)
	require.Equal(t, 40, workers[1].MaxCapacity)
}

func TestLoadStaticFile_Errors(t *testing.T) {
	_, err := LoadStaticFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: {not: [a, list"), 0o600))
	_, err = LoadStaticFile(path)
	require.Error(t, err)
}
