// Package main provides the CLI entry point for docmerge.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ArthurChan93/AnMao-docs/internal/config"
	"github.com/ArthurChan93/AnMao-docs/internal/server"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/classify"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/output"
)

var (
	configPath string
	logLevel   string
	outputPath string
	group      string
	asJSON     bool
	pretty     bool
	addr       string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docmerge",
		Short: "Consolidate MC Info, Relocation and Stock Machine report files",
		Long: `docmerge extracts machine records from MC Info, Relocation and Stock
Machine report workbooks and writes them into one consolidated workbook.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	extractCmd := &cobra.Command{
		Use:   "extract [files...]",
		Short: "Extract records from report files and write a workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: the group's report name)")
	extractCmd.Flags().StringVar(&group, "group", "auto", "Upload area: auto, mc, relocation, or stock")
	extractCmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of a workbook (stdout unless -o is given)")
	extractCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload areas over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	rootCmd.AddCommand(extractCmd, serveCmd)
	return rootCmd
}

func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return cfg, zerolog.Nop(), err
		}
	}
	return cfg, cfg.Logger(os.Stderr), nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	g, err := classify.ParseGroup(group)
	if err != nil {
		return err
	}

	uploads := make([]docmerge.Upload, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		uploads = append(uploads, docmerge.Upload{Name: filepath.Base(path), Data: data})
	}

	session := docmerge.NewSession(cfg.SessionOptions(&log))
	report, err := session.Process(cmd.Context(), g, uploads)
	if report != nil {
		logNotices(log, report.Notices)
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var data []byte
	if asJSON {
		data, err = output.ToJSON(session.Datasets(g), pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		if outputPath == "" {
			fmt.Println(string(data))
			return nil
		}
	} else {
		var buf bytes.Buffer
		if err := session.WriteReport(&buf, g); err != nil {
			if errors.Is(err, docmerge.ErrNoData) {
				log.Warn().Msg("No records extracted, nothing written")
				return nil
			}
			return fmt.Errorf("failed to build workbook: %w", err)
		}
		data = buf.Bytes()
	}

	// Write output
	path := resolveOutput(cfg.OutputDir, outputPath, g)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Info().Str("path", path).Msg("Report written")
	return nil
}

// resolveOutput places a bare or empty output name under dir.
func resolveOutput(dir, path string, g classify.Group) string {
	if path == "" {
		path = g.ReportName()
	}
	if dir != "" && filepath.Base(path) == path {
		return filepath.Join(dir, path)
	}
	return path
}

func logNotices(log zerolog.Logger, notices []models.Notice) {
	for _, n := range notices {
		var ev *zerolog.Event
		switch n.Level {
		case models.LevelError:
			ev = log.Error()
		case models.LevelWarning:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("file", n.File).Str("kind", string(n.Kind)).Msg(n.Message)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := server.NewStore(cfg.SessionOptions(&log), cfg.SessionTTL)
	srv := server.New(store, log, cfg.MaxUploadMB<<20)
	return srv.ListenAndServe(ctx, cfg.Addr)
}
