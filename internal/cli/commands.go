package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/leadroute"
	"github.com/arloliu/leadroute/internal/kvutil"
	"github.com/arloliu/leadroute/source"
)

func newRulesCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the routing rules and the capacity of every agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), v, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.print(s.engine.RoutingRules())
		},
	}
}

func newWorkloadCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "workload <agent-id>",
		Short: "Show the workload of one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), v, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := s.engine.AgentWorkload(args[0])
			if err != nil {
				return err
			}

			return s.print(w)
		},
	}
}

func newBalanceCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Report overloaded and underloaded agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), v, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.print(s.engine.BalanceWorkload())
		},
	}
}

// ItemsFile is the layout of the lead file read by the assign command.
type ItemsFile struct {
	Items []leadroute.WorkItem `yaml:"items"`
}

// AssignResult is one line of the assign command output.
type AssignResult struct {
	WorkItemID string                `json:"workItemId" yaml:"workItemId"`
	Assignment *leadroute.Assignment `json:"assignment" yaml:"assignment"`
	Error      string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// AssignSummary is the output of the assign command.
type AssignSummary struct {
	Results []AssignResult          `json:"results" yaml:"results"`
	Balance leadroute.BalanceReport `json:"balance" yaml:"balance"`
}

func newAssignCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <leads-file>",
		Short: "Assign every lead of a YAML or JSON file",
		Long: `Assign reads a file holding an "items" list of leads, routes them in file
order and prints every decision followed by the resulting workload balance.

Loads accumulate across the leads of one run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readItems(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), v, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			summary := AssignSummary{Results: make([]AssignResult, 0, len(items))}
			for _, item := range items {
				res := AssignResult{WorkItemID: item.ID}
				a, err := s.engine.AutoAssign(cmd.Context(), item)
				if err != nil {
					res.Error = err.Error()
				}
				res.Assignment = a
				summary.Results = append(summary.Results, res)
			}
			summary.Balance = s.engine.BalanceWorkload()

			return s.print(summary)
		},
	}
}

func readItems(path string) ([]leadroute.WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read leads file: %w", err)
	}

	var file ItemsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode leads file %s: %w", path, err)
	}

	return file.Items, nil
}

func newRosterCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the roster stored in NATS KV",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "push <roster-file>",
			Short: "Store every agent of a roster file in the roster bucket",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				static, err := source.LoadStaticFile(args[0])
				if err != nil {
					return err
				}
				workers, err := static.ListWorkers(cmd.Context())
				if err != nil {
					return err
				}

				kv, closeFn, err := openRosterBucket(cmd, v)
				if err != nil {
					return err
				}
				defer closeFn()

				var errs []error
				for _, w := range workers {
					if err := kv.Put(cmd.Context(), w); err != nil {
						errs = append(errs, err)
					}
				}
				if err := errors.Join(errs...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pushed %d agents to %s\n", len(workers), v.GetString(keyRosterBucket))

				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the agents stored in the roster bucket",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				kv, closeFn, err := openRosterBucket(cmd, v)
				if err != nil {
					return err
				}
				defer closeFn()

				workers, err := kv.ListWorkers(cmd.Context())
				if err != nil {
					return err
				}

				return write(cmd.OutOrStdout(), v.GetString(keyOutput), source.RosterFile{Workers: workers})
			},
		},
	)

	return cmd
}

func openRosterBucket(cmd *cobra.Command, v *viper.Viper) (*source.KV, func(), error) {
	if v.GetString(keyNATSURL) == "" {
		return nil, nil, errors.New("roster commands require --nats-url")
	}

	logger, err := newLogger(v, cmd)
	if err != nil {
		return nil, nil, err
	}

	nc, js, err := connect(cmd.Context(), v)
	if err != nil {
		return nil, nil, err
	}

	bucket, err := kvutil.EnsureBucket(cmd.Context(), js, jetstream.KeyValueConfig{
		Bucket:      v.GetString(keyRosterBucket),
		Description: "leadroute worker roster",
	}, bucketRetries)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	return source.NewKV(bucket, source.WithKVLogger(logger)), nc.Close, nil
}
