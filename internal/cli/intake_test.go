package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/leadroute"
	"github.com/arloliu/leadroute/audit"
	routetest "github.com/arloliu/leadroute/testing"
)

func TestIntakeCommand(t *testing.T) {
	ns, nc := routetest.StartEmbeddedNATS(t)
	url := ns.ClientURL()

	_, err := executeCommand(t, "roster", "push", writeRoster(t), "--nats-url", url)
	require.NoError(t, err)

	js := routetest.CreateLeadStream(t, nc, "LEADS")

	data, err := json.Marshal(leadroute.WorkItem{ID: "lead-1", Score: 85, Location: "Carlsbad"})
	require.NoError(t, err)
	_, err = js.Publish(t.Context(), "leads.web", data)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"intake", "--nats-url", url, "--audit-bucket", "intake-audit", "--always-available"})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	// The command creates the audit bucket itself.
	require.Eventually(t, func() bool {
		kv, err := js.KeyValue(t.Context(), "intake-audit")
		if err != nil {
			return false
		}
		records, err := audit.NewPublisher(kv).Records(t.Context())

		return err == nil && len(records) == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("intake did not stop")
	}

	require.Contains(t, out.String(), "routing leads from LEADS")
	require.Contains(t, out.String(), "1 assigned")
}

func TestIntakeCommand_RequiresNATS(t *testing.T) {
	_, err := executeCommand(t, "intake", "--roster", writeRoster(t))
	require.ErrorContains(t, err, "requires --nats-url")
}
