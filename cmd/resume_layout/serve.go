package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-paginator/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes layout, preview and export endpoints.
Résumé storage is enabled when DATABASE_URL is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080, or PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	srv, err := server.New(server.Config{
		Port:           cfg.ListenPort(),
		DatabaseURL:    cfg.DatabaseURL,
		ChromePath:     cfg.ChromePath,
		RasterizerURL:  cfg.RasterizerURL,
		ConstantsPath:  cfg.ConstantsPath,
		PageSize:       cfg.PageSize,
		Template:       cfg.Template,
		Preset:         cfg.Preset,
		MeasureTimeout: cfg.MeasureTimeout(),
		ExportTimeout:  cfg.ExportTimeout(),
		Verbose:        cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
