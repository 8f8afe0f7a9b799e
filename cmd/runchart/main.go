package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"workflow-runchart/internal/chart/adapter"
	"workflow-runchart/internal/chart/config"
	"workflow-runchart/internal/chart/delivery/terminal"
	"workflow-runchart/internal/chart/pagination"
	"workflow-runchart/internal/chart/parser"
	"workflow-runchart/internal/chart/render"
	"workflow-runchart/internal/chart/repository"
	"workflow-runchart/internal/entity"
	"workflow-runchart/pkg/logger"
	"workflow-runchart/pkg/utils"
)

var (
	configPath string
	feedURL    string
	feedFile   string
	outputPath string
	cursorFlag int
)

var rootCmd = &cobra.Command{
	Use:   "runchart",
	Short: "Browse workflow run history as a paginated bar chart",
	Long:  `runchart reads the run history feed and draws durations per run, coloured by outcome and trigger.`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the chart in the terminal; use the arrow keys to page",
	RunE:  runShow,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one chart page to an SVG or PNG file",
	RunE:  runExport,
}

type loaded struct {
	cfg     *config.Config
	log     *logger.Logger
	records []entity.RunRecord
	opts    adapter.Options
}

func load(ctx context.Context) (*loaded, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if feedURL != "" {
		cfg.Feed.URL = feedURL
	}

	appLogger, err := logger.New(cfg.Logger.Level, "console")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := utils.LoadLocation(cfg.Chart.TimeZone)
	if err != nil {
		appLogger.Warn("Unknown time zone, using UTC", logger.StringField("time_zone", cfg.Chart.TimeZone))
	}

	var raw string
	if feedFile != "" {
		b, err := os.ReadFile(feedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read feed file: %w", err)
		}
		raw = string(b)
	} else {
		raw, err = repository.NewFeedRepository(cfg, appLogger).Fetch(ctx)
		if err != nil {
			appLogger.Error("Error fetching data", logger.ErrorField(err))
		}
	}

	return &loaded{
		cfg:     cfg,
		log:     appLogger,
		records: parser.Parse(raw),
		opts:    adapter.Options{Location: loc},
	}, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	l, err := load(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = l.log.Sync() }()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return terminal.NewViewer(l.records, l.cfg.Chart.PageSize, l.opts.Location, os.Stdout, false).Draw()
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	return terminal.NewViewer(l.records, l.cfg.Chart.PageSize, l.opts.Location, os.Stdout, true).Run(os.Stdin)
}

func runExport(cmd *cobra.Command, args []string) error {
	l, err := load(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = l.log.Sync() }()

	var renderer render.Renderer
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".svg":
		renderer = render.NewSVG()
	case ".png":
		renderer = render.NewPNG()
	default:
		return fmt.Errorf("unsupported output %q: use a .svg or .png file name", outputPath)
	}

	p := pagination.New(len(l.records), l.cfg.Chart.PageSize)
	if cmd.Flags().Changed("cursor") {
		p.Seek(cursorFlag)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := renderer.Render(f, adapter.Build(l.records, p, l.opts)); err != nil {
		return err
	}
	l.log.Info("Chart written", logger.StringField("path", outputPath), logger.IntField("cursor", p.Cursor()))
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-chart.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&feedURL, "feed", "", "Feed URL, overrides the configuration")
	rootCmd.PersistentFlags().StringVarP(&feedFile, "file", "f", "", "Read the feed from a local file instead of fetching it")

	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "runchart.svg", "Output file (.svg or .png)")
	exportCmd.Flags().IntVar(&cursorFlag, "cursor", 0, "Index of the first run on the page (default: latest page)")

	rootCmd.AddCommand(showCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'\n", err)
		os.Exit(1)
	}
}
