package commands

import (
	"context"
	"eduverse/catalog"
	"eduverse/config"
	"eduverse/database"
	"eduverse/media"
	"eduverse/notify"
	"eduverse/payments"
	"eduverse/utils"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd starts the API server and the sales rollup scheduler.
func NewServeCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
	cmd.Flags().StringVar(port, "port", "", "port to listen on (overrides PORT)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.LoadConfig(configPath)

	utils.InitErrorReporting(cfg.RollbarToken, cfg.Env)
	defer utils.CloseErrorReporting()

	db, err := database.ConnectDb(cfg)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return errors.Wrap(err, "connect to redis")
		}
	}

	store, err := media.NewStore(cfg)
	if err != nil {
		return err
	}

	app := NewApp(Deps{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Notifier: newNotifier(cfg),
		SMS:      notify.NewSMSSender(cfg.SMSApiURL, cfg.SMSApiKey),
		Gateway:  payments.NewMidtrans(cfg.MidtransServerKey, cfg.MidtransProduction),
		Media:    store,
	})

	scheduler, err := catalog.NewScheduler(cfg.SalesRollupCron, &catalog.WindowRollup{DB: db})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	listenPort := portFlag
	if listenPort == "" {
		listenPort = cfg.Port
	}

	errCh := make(chan error, 1)
	go func() {
		utils.LogStartup("Server is running on port %s", listenPort)
		errCh <- app.Listen(":" + listenPort)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-stop:
		utils.LogShutdown("shutting down server...")
	case <-ctx.Done():
		utils.LogShutdown("context canceled, shutting down server...")
	}

	return app.ShutdownWithTimeout(10 * time.Second)
}
