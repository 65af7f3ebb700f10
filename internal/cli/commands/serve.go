package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capoala/mvvm/internal/bridge"
	"github.com/capoala/mvvm/internal/config"
	"github.com/capoala/mvvm/internal/dispatch"
	"github.com/capoala/mvvm/internal/playground"
	"github.com/capoala/mvvm/pkg/observable"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var (
		port           int
		host           string
		closureRequery bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the view models over websocket and REST",
		Long: `Start the binding bridge.

Every playground view model is exposed by name. Websocket clients receive a
snapshot on connect and every property and command change afterwards; they
may set properties and execute commands. The same operations are available
over REST under /api/objects.

When redis.url is configured, property changes are also published on
<redis.channel_prefix>:<object>.

Edits to log.level in mvvm.yml take effect while the server runs, unless
--log-level is given.

Examples:
  # Serve on the configured host and port (localhost:3000 by default)
  mvvm serve

  # Use a custom port
  mvvm serve --port 8080
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			cfg := env.config
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stopWatching := env.watchLogLevel()
			defer stopWatching()

			srv, err := newBridgeServer(ctx, cfg, env.logger, closureRequery)
			if err != nil {
				return err
			}
			defer srv.close()

			httpServer := &http.Server{
				Addr:              cfg.Server.Addr(),
				Handler:           srv.handler(),
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       60 * time.Second,
				MaxHeaderBytes:    1 << 20, // 1 MB
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()

			out := cmd.OutOrStdout()
			banner := color.New(color.FgCyan, color.Bold)
			info := color.New(color.FgWhite)
			hint := color.New(color.FgYellow)
			if env.noColor {
				banner.DisableColor()
				info.DisableColor()
				hint.DisableColor()
			}
			fmt.Fprintln(out)
			banner.Fprintln(out, "mvvm binding bridge")
			info.Fprintf(out, "   Websocket: ws://%s/ws\n", cfg.Server.Addr())
			info.Fprintf(out, "   REST:      http://%s/api/objects\n", cfg.Server.Addr())
			if cfg.Redis.URL != "" {
				info.Fprintf(out, "   Redis:     %s:<object>\n", cfg.Redis.ChannelPrefix)
			}
			fmt.Fprintln(out)
			hint.Fprintln(out, "Press Ctrl+C to stop")

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("bridge server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			fmt.Fprintln(out, "\nShutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("error stopping bridge server: %w", err)
			}

			color.New(color.FgGreen).Fprintln(out, "Goodbye!")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 3000, "Bridge server port (overrides server.port)")
	cmd.Flags().StringVar(&host, "host", "localhost", "Bridge server host (overrides server.host)")
	cmd.Flags().BoolVar(&closureRequery, "closure-requery", false, "Requery commands declared against any property reached by a change")

	return cmd
}

// bridgeServer owns the dispatcher, the app living on it, the hub exposing
// it and the optional Redis publisher.
type bridgeServer struct {
	owner     *dispatch.Dispatcher
	hub       *bridge.Hub
	app       *playground.App
	subs      []observable.Subscription
	publisher *bridge.Publisher
	redis     *redis.Client
	cancel    context.CancelFunc
	logger    *zap.Logger
}

func newBridgeServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, closureRequery bool) (*bridgeServer, error) {
	owner := dispatch.New(logger)
	owner.Start()

	s := &bridgeServer{
		owner:  owner,
		hub:    bridge.NewHub(owner, logger),
		logger: logger,
	}

	err := owner.Invoke(ctx, func() error {
		s.app = playground.NewApp(playground.AppOptions{
			Navigation: cfg.Navigation.Options(),
			Save: playground.SaveOptions{
				Steps:     cfg.Save.Steps,
				StepDelay: cfg.Save.StepDelay,
				Invoker:   owner,
			},
			Logger:         logger,
			ClosureRequery: closureRequery,
		})
		s.subs = append(s.subs, s.app.Expose(s.hub))
		return nil
	})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to start view models: %w", err)
	}

	if cfg.Redis.URL != "" {
		if err := s.startPublisher(ctx, cfg.Redis); err != nil {
			s.close()
			return nil, err
		}
	}
	return s, nil
}

func (s *bridgeServer) startPublisher(ctx context.Context, cfg config.RedisConfig) error {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return &configError{err: fmt.Errorf("invalid redis.url: %w", err)}
	}
	s.redis = redis.NewClient(opts)

	s.publisher, err = bridge.NewPublisher(bridge.PublisherConfig{
		Client: s.redis,
		Prefix: cfg.ChannelPrefix,
		Logger: s.logger,
	})
	if err != nil {
		return &configError{err: err}
	}

	err = s.owner.Invoke(ctx, func() error {
		targets := s.app.Targets()
		for _, name := range playground.TargetNames() {
			s.subs = append(s.subs, s.publisher.Watch(name, targets[name]))
		}
		return nil
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go func() {
		if err := s.publisher.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("redis publisher stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *bridgeServer) handler() http.Handler {
	return bridge.Routes(s.hub)
}

// close detaches every observer on the owner, then stops the owner.
func (s *bridgeServer) close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.hub.Close()

	err := s.owner.Invoke(context.Background(), func() error {
		for _, sub := range s.subs {
			sub.Unsubscribe()
		}
		if s.app != nil {
			s.app.Main.Close()
			s.app.Listing.Close()
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("owner already stopped", zap.Error(err))
	}
	s.owner.Shutdown()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Debug("failed to close redis client", zap.Error(err))
		}
	}
}
