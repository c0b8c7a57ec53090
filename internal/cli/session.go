package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/leadroute"
	"github.com/arloliu/leadroute/audit"
	"github.com/arloliu/leadroute/internal/kvutil"
	"github.com/arloliu/leadroute/internal/logging"
	"github.com/arloliu/leadroute/source"
)

const bucketRetries = 3

// errNoRoster is returned when neither --roster nor --nats-url is set.
var errNoRoster = errors.New("no roster: set --roster or --nats-url")

// session holds the engine and connections of one command run.
type session struct {
	engine *leadroute.Engine
	audit  *audit.Publisher
	logger leadroute.Logger
	nc     *nats.Conn
	js     jetstream.JetStream
	roster *source.KV
	out    io.Writer
	format string
}

// Close releases the NATS connection, if any.
func (s *session) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}

func newLogger(v *viper.Viper, cmd *cobra.Command) (leadroute.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), v.GetString(keyLogLevel), v.GetString(keyLogFormat))
}

func loadConfig(v *viper.Viper) (leadroute.Config, error) {
	cfg := leadroute.DefaultConfig()
	if path := v.GetString(keyConfig); path != "" {
		var err error
		if cfg, err = leadroute.LoadConfig(path); err != nil {
			return leadroute.Config{}, err
		}
	}
	if v.GetBool(keyAlwaysAvailable) {
		cfg.WorkingHours.AlwaysAvailable = true
	}

	return cfg, nil
}

func connect(ctx context.Context, v *viper.Viper) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(v.GetString(keyNATSURL), nats.Name("leadroute-cli"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	// Fail fast when JetStream is unavailable instead of at first bucket use.
	if _, err := js.AccountInfo(ctx); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("JetStream unavailable: %w", err)
	}

	return nc, js, nil
}

// openSession builds an engine from the command settings and loads the roster.
func openSession(ctx context.Context, v *viper.Viper, cmd *cobra.Command) (*session, error) {
	logger, err := newLogger(v, cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	s := &session{logger: logger, out: cmd.OutOrStdout(), format: v.GetString(keyOutput)}

	var (
		src  leadroute.RosterSource
		opts = []leadroute.Option{leadroute.WithLogger(logger)}
	)

	switch {
	case v.GetString(keyRoster) != "":
		if src, err = source.LoadStaticFile(v.GetString(keyRoster)); err != nil {
			return nil, err
		}
	case v.GetString(keyNATSURL) != "":
		nc, js, err := connect(ctx, v)
		if err != nil {
			return nil, err
		}
		s.nc = nc
		s.js = js

		bucket, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
			Bucket:      v.GetString(keyRosterBucket),
			Description: "leadroute worker roster",
		}, bucketRetries)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.roster = source.NewKV(bucket, source.WithKVLogger(logger))
		src = s.roster

		if name := v.GetString(keyAuditBucket); name != "" {
			auditKV, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
				Bucket:      name,
				Description: "leadroute decision records",
				History:     1,
			}, bucketRetries)
			if err != nil {
				s.Close()
				return nil, err
			}

			s.audit = audit.NewPublisher(auditKV, audit.WithLogger(logger))
			if err := s.audit.DiscoverHighestSequence(ctx); err != nil {
				s.Close()
				return nil, err
			}
			opts = append(opts, leadroute.WithHooks(s.audit.Hooks()))
		}
	default:
		return nil, errNoRoster
	}

	s.engine, err = leadroute.NewEngine(&cfg, src, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := s.engine.Refresh(ctx); err != nil {
		// Malformed roster entries are skipped; the rest of the roster is usable.
		if !errors.Is(err, leadroute.ErrInvalidWorker) {
			s.Close()
			return nil, err
		}
		logger.Warn("roster loaded with skipped entries", "error", err)
	}

	return s, nil
}

// print writes v in the selected output format.
func (s *session) print(v any) error {
	return write(s.out, s.format, v)
}

func write(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
