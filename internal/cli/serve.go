package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hotspotmap/internal/server"
	"github.com/matzehuels/hotspotmap/pkg/cache"
	"github.com/matzehuels/hotspotmap/pkg/pipeline"
)

// redisEnv names the environment variable read when --redis is not given.
const redisEnv = "HOTSPOTMAP_REDIS_URL"

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr      string
	redisURL  string
	noCache   bool
	timeout   time.Duration
	maxUpload int64
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server",
		Long: `Run an HTTP server that renders uploaded floor-plans on demand.

  curl -F flp=@ev6.flp -F temperature=@gcc.steady localhost:8080/render?format=svg

Converted artifacts are cached in Redis when --redis (or ` + redisEnv + `) is
set, and in the local cache directory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.redisURL == "" {
				flags.redisURL = os.Getenv(redisEnv)
			}
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&flags.redisURL, "redis", "", "Redis URL for the artifact cache (redis://host:port/db)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", server.DefaultTimeout, "per-request render timeout")
	cmd.Flags().Int64Var(&flags.maxUpload, "max-upload", server.DefaultMaxUpload, "maximum upload size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	runner, err := c.newServeRunner(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger, server.Config{
		Addr:      flags.addr,
		MaxUpload: flags.maxUpload,
		Timeout:   flags.timeout,
	})
	return srv.ListenAndServe(ctx)
}

// newServeRunner creates the server's runner. Keys are scoped so a Redis
// instance can be shared with other tools.
func (c *CLI) newServeRunner(ctx context.Context, flags serveFlags) (*pipeline.Runner, error) {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":serve:")
	if flags.noCache || flags.redisURL == "" {
		return pipeline.NewRunner(c.newCache(flags.noCache), keyer, c.Logger), nil
	}
	rc, err := cache.NewRedisCache(ctx, flags.redisURL)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis artifact cache")
	return pipeline.NewRunner(cache.NewInstrumented(rc, "artifact"), keyer, c.Logger), nil
}
