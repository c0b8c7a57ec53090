// Package cli implements the leadroute command line tool.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting keys shared by flags, environment variables and viper lookups.
const (
	keyConfig          = "config"
	keyRoster          = "roster"
	keyNATSURL         = "nats-url"
	keyRosterBucket    = "roster-bucket"
	keyAuditBucket     = "audit-bucket"
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
	keyAlwaysAvailable = "always-available"
	keyOutput          = "output"
)

// Default bucket names.
const (
	DefaultRosterBucket = "leadroute-roster"
	DefaultAuditBucket  = "leadroute-audit"
)

// NewRootCommand builds the leadroute command tree.
//
// Every setting can also be given as an environment variable with the LEADROUTE_
// prefix, e.g. LEADROUTE_NATS_URL for --nats-url.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "leadroute",
		Short: "Route leads to agents",
		Long: `Leadroute assigns incoming leads to the best available agent of a roster,
using territory, score, source, specialty, language and budget routing rules.

The roster comes from a YAML file (--roster) or a NATS JetStream KV bucket
(--nats-url). Decisions only live for the duration of a command unless an
audit bucket is configured.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initConfig(v, cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP(keyConfig, "c", "", "engine config file (YAML)")
	flags.StringP(keyRoster, "r", "", "roster file (YAML); takes precedence over --nats-url")
	flags.String(keyNATSURL, "", "NATS server URL for the KV roster source")
	flags.String(keyRosterBucket, DefaultRosterBucket, "KV bucket holding the roster")
	flags.String(keyAuditBucket, "", "KV bucket receiving decision records (requires --nats-url)")
	flags.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	flags.String(keyLogFormat, "text", "log format (text, json)")
	flags.Bool(keyAlwaysAvailable, false, "ignore working hours")
	flags.StringP(keyOutput, "o", "yaml", "output format (yaml, json)")

	root.AddCommand(
		newRulesCommand(v),
		newWorkloadCommand(v),
		newBalanceCommand(v),
		newAssignCommand(v),
		newRosterCommand(v),
		newIntakeCommand(v),
	)

	return root
}

// Execute runs the leadroute command.
func Execute() error {
	return NewRootCommand().Execute()
}

func initConfig(v *viper.Viper, cmd *cobra.Command) {
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("LEADROUTE")
	// Replace dashes with underscores, e.g. LEADROUTE_ROSTER_BUCKET for roster-bucket
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}
