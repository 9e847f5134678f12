package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"helmetwatch.xyz/alert-console/pkg/backend"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/console"
	"helmetwatch.xyz/alert-console/pkg/db"
	"helmetwatch.xyz/alert-console/pkg/feed"
	consoleGrpc "helmetwatch.xyz/alert-console/pkg/grpc"
	consoleHttp "helmetwatch.xyz/alert-console/pkg/http"
	"helmetwatch.xyz/alert-console/pkg/journal"
	"helmetwatch.xyz/alert-console/pkg/limiter"
	"helmetwatch.xyz/alert-console/pkg/notify"
	"helmetwatch.xyz/alert-console/pkg/simulate"
)

var serveSimulate bool

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the alert console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&serveSimulate, "simulate", false, "run the emergency simulator in process (memory feed only)")
	return cmd
}

// buildChannel wires the configured feed with its acknowledgment path. The
// memory feed answers acknowledgments itself, every other feed goes through
// the backend REST API.
func buildChannel(settings common.Settings) (console.AlertChannel, *feed.MemoryFeed, error) {
	ackClient := backend.NewAckClient(backend.AckClientOpts{
		BaseURL:    settings.BackendBaseURL,
		Timeout:    settings.BackendTimeout,
		RetryCount: settings.BackendRetryCount,
	})

	switch settings.FeedType {
	case "memory":
		memoryFeed := feed.NewMemoryFeed()
		return console.NewAlertChannel(memoryFeed, memoryFeed), memoryFeed, nil
	case "redis":
		client := feed.NewRedisClient(settings.FeedRedisAddr, settings.FeedRedisDB)
		return console.NewAlertChannel(feed.NewRedisFeed(client, settings.FeedPath), ackClient), nil, nil
	case "mqtt":
		mqttFeed := feed.NewMQTTFeed(settings.FeedMQTTBroker, "alert-console-"+uuid.NewString()[:8], settings.FeedPath)
		return console.NewAlertChannel(mqttFeed, ackClient), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown %s: %q", common.EnvKeyFeedType, settings.FeedType)
	}
}

func runServe(parent context.Context) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := common.GetLogger()

	dialector, ok := db.UseDialector(settings.DBType)
	if !ok {
		return fmt.Errorf("unknown %s: %q", common.EnvKeyConsoleDBType, settings.DBType)
	}
	alertJournal := &journal.Journal{Db: *db.GetInstance(dialector)}

	channel, memoryFeed, err := buildChannel(settings)
	if err != nil {
		return err
	}

	hub := notify.NewHub(settings.SoundAsset)
	alertConsole := console.New(channel, console.Opts{
		Notifier:        hub,
		SoundCue:        hub,
		Journal:         alertJournal,
		Actor:           settings.Actor,
		NotificationTTL: settings.NotificationTTL,
		AckTimeout:      settings.AckTimeout,
	})
	if err := alertConsole.Start(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s feed: %w", settings.FeedType, err)
	}
	defer alertConsole.Close()

	logger.Info("Alert console started", zap.String("feed", settings.FeedType), zap.String("actor", settings.Actor))

	if serveSimulate {
		if memoryFeed == nil {
			return errors.New("--simulate needs the memory feed, use the simulate command for other feeds")
		}
		simulator := simulate.New(memoryFeed, nil)
		go func() {
			_ = simulator.Run(ctx, simulate.DefaultHelmetInterval, simulate.DefaultEnvironmentalInterval)
		}()
	}

	defaultLimiter := fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", settings.DefaultRate, settings.DefaultBurst)

	var grpcServer *grpc.Server
	if settings.GrpcHostPort != "" {
		consoleServer := consoleGrpc.ConsoleServer{
			Console:          alertConsole,
			RateLimiterStore: limiter.NewStore(rate.Limit(settings.DefaultRate), settings.DefaultBurst),
		}
		interceptor := consoleServer.CreateRateLimitInterceptor([]any{
			&consoleGrpc.AcknowledgeRequest{},
		})
		grpcServer = consoleGrpc.NewServer(grpc.UnaryInterceptor(interceptor))
		consoleGrpc.RegisterAlertConsoleServer(grpcServer, &consoleServer)
		logger.Info("gRPC server created with:", zap.String("default_limiter", defaultLimiter))

		listener, err := net.Listen("tcp", settings.GrpcHostPort)
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}

		go func() {
			logger.Info("start gRPC server on " + settings.GrpcHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				logger.Error("grpc server failed to serve", zap.Error(err))
			}
		}()
	}

	if !common.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	rs := &consoleHttp.RestfulServer{
		Server:           gin.Default(),
		Console:          alertConsole,
		Hub:              hub,
		Journal:          alertJournal,
		RateLimiterStore: limiter.NewStore(rate.Limit(settings.DefaultRate), settings.DefaultBurst),
	}
	rs.Setup()
	logger.Info("http server created with:", zap.String("default_limiter", defaultLimiter))

	httpServer := &http.Server{Addr: settings.HttpHostPort, Handler: rs.Server}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server on: " + settings.HttpHostPort)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed to serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	return httpServer.Shutdown(shutdownCtx)
}
