package cli

import (
	"github.com/spf13/cobra"

	"github.com/photogrid/photogrid/internal/server"
	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/cache"
	"github.com/photogrid/photogrid/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redis    string
		mongo    string
		database string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the photogrid HTTP API",
		Long: `Serve runs the layout API: POST /v1/pack for stateless packing and the
/v1/albums collection when a Mongo store is configured. With --redis the
layout and artifact caches are shared across instances; otherwise the
local file cache is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pcfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && pcfg.Server.Addr != "" {
				addr = pcfg.Server.Addr
			}
			if !cmd.Flags().Changed("database") && pcfg.Server.Database != "" {
				database = pcfg.Server.Database
			}
			if redis == "" {
				redis = pcfg.Server.Redis
			}
			if mongo == "" {
				mongo = pcfg.Server.Mongo
			}

			var cch cache.Cache
			switch {
			case noCache:
				cch = cache.NewNullCache()
			case redis != "":
				cch, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redis})
				if err != nil {
					return err
				}
				c.Logger.Info("using redis cache", "addr", redis)
			default:
				cch, err = newCache(false)
				if err != nil {
					return err
				}
			}

			var store album.Store
			if mongo != "" {
				ms, err := album.NewMongoStore(ctx, album.MongoConfig{URI: mongo, Database: database})
				if err != nil {
					return err
				}
				defer func() { _ = ms.Close(ctx) }()
				store = ms
				c.Logger.Info("using mongo store", "database", database)
			}

			runner := pipeline.NewRunner(cch, nil, c.Logger)
			defer runner.Close()

			cfg := server.DefaultConfig()
			cfg.Addr = addr
			return server.New(cfg, runner, store, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redis, "redis", "", "redis address for shared caching (host:port)")
	cmd.Flags().StringVar(&mongo, "mongo", "", "mongodb connection URI for album storage")
	cmd.Flags().StringVar(&database, "database", "photogrid", "mongodb database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
