package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/leadroute/intake"
)

const (
	keyStream        = "stream"
	keySubject       = "subject"
	keyDurable       = "durable"
	keyUnroutedDelay = "unrouted-delay"
)

func newIntakeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Route leads published to a JetStream stream until interrupted",
		Long: `Intake pulls leads (JSON work items) from a JetStream stream with a durable
consumer and routes each one through the engine. The roster is watched while
running, so agents pushed with "roster push" are picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v.GetString(keyNATSURL) == "" {
				return errors.New("intake requires --nats-url")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runIntake(ctx, v, cmd)
		},
	}

	flags := cmd.Flags()
	flags.String(keyStream, "LEADS", "JetStream stream holding incoming leads")
	flags.String(keySubject, intake.DefaultSubject, "subject filter of the lead consumer")
	flags.String(keyDurable, intake.DefaultDurable, "durable consumer name")
	flags.Duration(keyUnroutedDelay, 0, "redeliver leads without an eligible agent after this delay (0 acknowledges them)")

	return cmd
}

func runIntake(ctx context.Context, v *viper.Viper, cmd *cobra.Command) error {
	s, err := openSession(ctx, v, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.js == nil {
		return errors.New("intake requires a NATS roster; drop --roster")
	}

	s.roster.OnChange(s.engine.Refresh)
	if err := s.roster.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = s.roster.Stop() }()

	consumer, err := intake.NewConsumer(s.js, intake.Config{
		StreamName:    v.GetString(keyStream),
		Subject:       v.GetString(keySubject),
		Durable:       v.GetString(keyDurable),
		UnroutedDelay: v.GetDuration(keyUnroutedDelay),
		Logger:        s.logger,
	}, s.engine)
	if err != nil {
		return err
	}
	if err := consumer.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "routing leads from %s (%s)\n", v.GetString(keyStream), v.GetString(keySubject))
	<-ctx.Done()

	if err := consumer.Stop(); err != nil {
		return err
	}

	stats := consumer.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "stopped: %d assigned, %d unrouted, %d rejected, %d failed\n",
		stats.Assigned, stats.Unrouted, stats.Rejected, stats.Failed)

	return nil
}
