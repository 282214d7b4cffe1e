package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/triplog/internal/adapters/credentials"
	"github.com/okian/triplog/internal/adapters/foursquare"
	"github.com/okian/triplog/internal/adapters/http/api"
	"github.com/okian/triplog/internal/adapters/http/swagger"
	"github.com/okian/triplog/internal/adapters/mq/worker"
	service "github.com/okian/triplog/internal/app"
	"github.com/okian/triplog/internal/config"
	"github.com/okian/triplog/internal/domain/schedule"
	"github.com/okian/triplog/pkg/logger"
)

// HTTP server timeouts.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var (
	runDryRun bool
	runSeed   int64
	runAddr   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule trips and record visits until interrupted",
	Long: `Run the scheduler: pick a trip, queue its visits, record each one
when it falls due, and pick the next trip after midnight. Runs until
SIGINT or SIGTERM.

With --dry-run visits are logged instead of sent and no access token
is needed.

Example:
  triplog run --config trips.yaml
  triplog run --config trips.yaml --dry-run --addr :9080`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "log visits instead of sending them")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed (0 = use config, then random)")
	runCmd.Flags().StringVar(&runAddr, "addr", "", "status server address (overrides config)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	log := logger.Get()

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	recorder, err := newRecorder(ctx, cfg)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithTrips(catalog.Trips),
		service.WithRecorder(recorder),
		service.WithClock(schedule.SystemClock{Location: loc}),
		service.WithSeed(cfg.Seed),
		service.WithQueueCapacity(cfg.QueueCapacity),
		service.WithLogger(log.Named("service")),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	var srv *http.Server
	if cfg.Addr != "" {
		srv = newHTTPServer(ctx, cfg, svc)
		go func() {
			log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "HTTP server failed", logger.Error(err))
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down...")
	case <-svc.Done():
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "server shutdown failed", logger.Error(err))
		}
	}
	return svc.Err()
}

// applyRunFlags lets explicitly set flags win over file and env values.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.DryRun = runDryRun
	}
	if flags.Changed("seed") {
		cfg.Seed = runSeed
	}
	if flags.Changed("addr") {
		cfg.Addr = runAddr
	}
}

// newRecorder returns the Foursquare client, or a logging recorder on a dry
// run. A live run without a token is refused up front.
func newRecorder(ctx context.Context, cfg *config.Config) (worker.Recorder, error) {
	if cfg.DryRun {
		logger.Get().Info(ctx, "dry run: visits will be logged, not sent")
		return worker.NewLogRecorder(logger.Named("recorder")), nil
	}

	token, err := credentials.Resolve(cfg.Foursquare.AccessToken, credentials.NewStore())
	if err != nil {
		return nil, fmt.Errorf("no access token (run \"triplog auth\" or set foursquare.access_token): %w", err)
	}
	return newFoursquareClient(cfg, foursquare.WithToken(token)), nil
}

func newFoursquareClient(cfg *config.Config, extra ...foursquare.Option) *foursquare.Client {
	fs := cfg.Foursquare
	opts := []foursquare.Option{
		foursquare.WithCredentials(fs.ClientID, fs.ClientSecret, fs.RedirectURI),
		foursquare.WithAPIBase(fs.APIBase),
		foursquare.WithAuthBase(fs.AuthBase),
		foursquare.WithVersion(fs.APIVersion),
		foursquare.WithTimeout(fs.Timeout),
		foursquare.WithLogger(logger.Named("foursquare")),
	}
	return foursquare.New(append(opts, extra...)...)
}

func newHTTPServer(ctx context.Context, cfg *config.Config, svc *service.Service) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux, swagger.WithRedocURL(cfg.RedocURL))
	api.NewServer(svc).Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
