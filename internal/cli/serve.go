package cmd

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/seoaudit/engine/internal/api"
	"github.com/seoaudit/engine/internal/config"
	"github.com/seoaudit/engine/internal/orchestrator"
	"github.com/seoaudit/engine/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit submit/poll/cancel API over HTTP.",
	RunE:  serveAudits,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "address to listen on (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
}

func serveAudits(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"host": "server.host",
		"port": "server.port",
	})
	if err != nil {
		return err
	}

	backend, err := newStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("building store: %w", err)
	}

	defaultOpts := orchestrator.RunOptions{
		MaxPages:          cfg.Run.MaxPages,
		MaxTime:           cfg.Run.MaxTime,
		IncludeSubdomains: cfg.Run.IncludeSubdomains,
		HeadlessPoolSize:  cfg.Run.HeadlessPoolSize,
		UserAgentSuffix:   cfg.Run.UserAgentSuffix,
		RespectRobots:     cfg.Run.RespectRobots,
	}

	srv := api.New(backend, func() (*orchestrator.Orchestrator, error) { return buildOrchestrator(cfg) }, defaultOpts)

	addr := net.JoinHostPort(cfg.Server.Host, fmt.Sprintf("%d", cfg.Server.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if httpServer.ReadTimeout == 0 {
		httpServer.ReadTimeout = 15 * time.Second
	}
	if httpServer.WriteTimeout == 0 {
		httpServer.WriteTimeout = 15 * time.Second
	}

	fmt.Printf("seoaudit serve listening on %s\n", addr)
	return httpServer.ListenAndServe()
}

func newStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "file":
		return store.NewJSONFileStore(cfg.Path), nil
	case "memory", "":
		return store.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
