// Package cli wires the engines into the storefront command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/morislaflame/clo-client/internal/auth"
	"github.com/morislaflame/clo-client/internal/basket"
	"github.com/morislaflame/clo-client/internal/config"
	"github.com/morislaflame/clo-client/internal/gateway"
	"github.com/morislaflame/clo-client/internal/localstore"
	"github.com/morislaflame/clo-client/internal/order"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	addr "github.com/morislaflame/clo-client/internal/address"
)

// app holds everything the commands share. Construction happens once at
// startup and the instances are threaded explicitly; there is no global
// store accessor.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	session  *auth.Session
	auth     *auth.Manager
	basket   *basket.Engine
	orders   *order.Engine
	products gateway.ProductAPI
}

var (
	configPath string
	deps       *app
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront client: basket, checkout and orders over the remote shop API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if deps != nil {
			return nil
		}
		var err error
		deps, err = buildApp(configPath)
		return err
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "storefront.yaml", "path to the config file")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(basketCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(serveCmd)
}

func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	session, err := auth.LoadSession(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	client := gateway.NewClient(cfg.APIBaseURL, session, cfg.RequestTimeout())

	var store localstore.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store = localstore.NewRedisStore(redisClient, session.GuestID()).WithExpiry(cfg.BasketExpiry())
	} else {
		store = localstore.NewFileStore(cfg.DataDir).WithExpiry(cfg.BasketExpiry())
	}

	basketEngine := basket.NewEngine(session, store, gateway.NewBasketGateway(client), log)
	orderEngine := order.NewEngine(gateway.NewOrderGateway(client), addr.NewStaticValidator(), log)
	authManager := auth.NewManager(session, gateway.NewAuthGateway(client), log)

	return &app{
		cfg:      cfg,
		log:      log,
		session:  session,
		auth:     authManager,
		basket:   basketEngine,
		orders:   orderEngine,
		products: gateway.NewProductGateway(client),
	}, nil
}
