package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/timster/go-api/internal/api"
	"github.com/timster/go-api/internal/auth"
	"github.com/timster/go-api/internal/config"
	"github.com/timster/go-api/internal/logging"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List all routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoutes()
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Walking the routing table never invokes a handler, so the router is
	// built without backing services.
	logger := logging.NewLogger(true)
	handler := api.NewHandler(nil, nil, cfg.RateLimit)
	authMiddleware := auth.NewMiddleware(auth.NewVerifier(nil))
	router := api.NewRouter(cfg, handler, authMiddleware, logger)

	return chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		fmt.Printf("%-8s %s\n", method, route)
		return nil
	})
}
