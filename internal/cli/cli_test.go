package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/leadroute"
	"github.com/arloliu/leadroute/source"
	routetest "github.com/arloliu/leadroute/testing"
)

// executeCommand runs a fresh command tree with args and returns captured stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())

	return out.String(), err
}

func writeRoster(t *testing.T) string {
	t.Helper()

	data, err := yaml.Marshal(source.RosterFile{Workers: routetest.SampleRoster()})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"rules", "workload", "balance", "assign", "roster", "intake"} {
		require.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRulesCommand(t *testing.T) {
	out, err := executeCommand(t, "rules", "--roster", writeRoster(t), "--always-available", "-o", "json")
	require.NoError(t, err)

	var report leadroute.RoutingRules
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 7, report.ActiveRuleCount)
	require.Len(t, report.Workers, 4)
}

func TestWorkloadCommand(t *testing.T) {
	out, err := executeCommand(t, "workload", "agent_004", "--roster", writeRoster(t))
	require.NoError(t, err)

	var w leadroute.Workload
	require.NoError(t, yaml.Unmarshal([]byte(out), &w))
	require.Equal(t, "Linh Tran", w.WorkerName)
	require.Equal(t, 18, w.AvailableCapacity)

	_, err = executeCommand(t, "workload", "nobody", "--roster", writeRoster(t))
	require.ErrorIs(t, err, leadroute.ErrWorkerNotFound)
}

func TestBalanceCommand(t *testing.T) {
	out, err := executeCommand(t, "balance", "--roster", writeRoster(t))
	require.NoError(t, err)

	var report leadroute.BalanceReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	require.Len(t, report.OverloadedWorkers, 1)
	require.Equal(t, "agent_003", report.OverloadedWorkers[0].ID)
	require.NotEmpty(t, report.RecommendedAction)
}

func TestAssignCommand(t *testing.T) {
	items := filepath.Join(t.TempDir(), "leads.yaml")
	require.NoError(t, os.WriteFile(items, []byte(`
items:
  - id: lead-1
    score: 85
    propertyType: Single Family
    preferredLanguage: Spanish
    location: Carlsbad
  - id: lead-2
    score: 150
`), 0o600))

	out, err := executeCommand(t, "assign", items, "--roster", writeRoster(t), "--always-available")
	require.NoError(t, err)

	var summary AssignSummary
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Results, 2)
	require.NotNil(t, summary.Results[0].Assignment)
	require.Equal(t, "agent_001", summary.Results[0].Assignment.WorkerID)
	require.Nil(t, summary.Results[1].Assignment)
	require.Contains(t, summary.Results[1].Error, "score")
}

func TestCommands_RequireRoster(t *testing.T) {
	_, err := executeCommand(t, "rules")
	require.ErrorIs(t, err, errNoRoster)

	_, err = executeCommand(t, "roster", "list")
	require.ErrorContains(t, err, "--nats-url")
}

func TestCommands_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LEADROUTE_ROSTER", writeRoster(t))
	t.Setenv("LEADROUTE_OUTPUT", "json")

	out, err := executeCommand(t, "workload", "agent_001")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(out)))
}

func TestRosterCommands_KV(t *testing.T) {
	ns, _ := routetest.StartEmbeddedNATS(t)
	url := ns.ClientURL()

	out, err := executeCommand(t, "roster", "push", writeRoster(t), "--nats-url", url, "--roster-bucket", "cli-roster")
	require.NoError(t, err)
	require.Contains(t, out, "pushed 4 agents")

	out, err = executeCommand(t, "roster", "list", "--nats-url", url, "--roster-bucket", "cli-roster")
	require.NoError(t, err)

	var file source.RosterFile
	require.NoError(t, yaml.Unmarshal([]byte(out), &file))
	require.Len(t, file.Workers, 4)

	items := filepath.Join(t.TempDir(), "leads.json")
	require.NoError(t, os.WriteFile(items, []byte(`{"items": [{"id": "lead-1", "score": 85, "location": "Carlsbad"}]}`), 0o600))

	out, err = executeCommand(t, "assign", items,
		"--nats-url", url,
		"--roster-bucket", "cli-roster",
		"--audit-bucket", "cli-audit",
		"--always-available",
	)
	require.NoError(t, err)

	var summary AssignSummary
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	require.NotNil(t, summary.Results[0].Assignment)
}
