package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/flextable/internal/config"
	"github.com/mmcdole/flextable/internal/domain"
	"github.com/mmcdole/flextable/internal/loader"
	"github.com/mmcdole/flextable/internal/log"
	"github.com/mmcdole/flextable/internal/service"
	"github.com/mmcdole/flextable/internal/store"
	"github.com/mmcdole/flextable/internal/tui"
	"github.com/mmcdole/flextable/internal/tui/table"
)

const defaultSampleCount = 60

type rootOptions struct {
	configPath string
	storePath  string
}

// app is everything a command needs, opened from configuration.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *service.RecordService
	close  func()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "flextable",
		Short:         "Browse records in a sortable, paginated terminal table",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultConfigFile()+")")
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "record database; overrides store.path")

	root.AddCommand(
		newBrowseCmd(opts),
		newPrintCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newSeedCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// open loads configuration, sets up logging and opens the record store.
func (o *rootOptions) open() (*app, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
	}

	logger, logFile, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logFile = log.NullLogger(), io.NopCloser(nil)
	}
	slog.SetDefault(logger)

	repo, err := store.NewRecordStore(cfg.Store.Path)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	logger.Info("starting flextable", "version", Version, "store", cfg.Store.Path)
	return &app{
		cfg:    cfg,
		logger: logger,
		svc:    service.NewRecordService(repo, logger),
		close: func() {
			if err := repo.Close(); err != nil {
				logger.Error("close store", "error", err)
			}
			logFile.Close()
		},
	}, nil
}

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive record browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts)
		},
	}
}

func runBrowse(cmd *cobra.Command, opts *rootOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPrint(cmd, opts, printOptions{})
	}

	a, err := opts.open()
	if err != nil {
		return err
	}
	defer a.close()

	if err := seedIfEmpty(cmd.Context(), a); err != nil {
		return err
	}

	p := tea.NewProgram(
		tui.NewModel(a.svc, a.cfg.Table, a.logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	a.logger.Info("shutting down")
	return nil
}

// seedIfEmpty fills an empty store with sample records so a first run has
// something to show.
func seedIfEmpty(ctx context.Context, a *app) error {
	n, err := a.svc.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = a.svc.Import(ctx, loader.SampleRecords(defaultSampleCount, time.Now()))
	return err
}

type printOptions struct {
	width  int
	page   int
	search string
}

func newPrintCmd(opts *rootOptions) *cobra.Command {
	var po printOptions
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render one page of the table to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, opts, po)
		},
	}
	cmd.Flags().IntVar(&po.width, "width", 0, "truncate lines to this width (default: terminal width)")
	cmd.Flags().IntVar(&po.page, "page", 1, "page to print, starting at 1")
	cmd.Flags().StringVar(&po.search, "search", "", "only print records matching this query")
	return cmd
}

func runPrint(cmd *cobra.Command, opts *rootOptions, po printOptions) error {
	a, err := opts.open()
	if err != nil {
		return err
	}
	defer a.close()

	q := service.Query{Search: po.search}
	if a.cfg.Table.InitialSort != "" {
		q.Field = domain.SortField(a.cfg.Table.InitialSort)
		q.Desc = table.ParseOrder(a.cfg.Table.InitialOrder) == table.Desc
	}
	res, err := a.svc.Query(cmd.Context(), q)
	if err != nil {
		return err
	}

	width := po.width
	if width == 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.Snapshot(res.Records, a.cfg.Table, width, po.page-1, a.logger))
	return nil
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import records from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loader.DecodeFile(args[0])
			if err != nil {
				return err
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.close()

			save := a.svc.Import
			if replace {
				save = a.svc.Replace
			}
			n, err := save(cmd.Context(), records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d records\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "remove existing records before importing")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every record to stdout as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.close()

			records, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return loader.Encode(cmd.OutOrStdout(), records)
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add generated sample records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.svc.Import(cmd.Context(), loader.SampleRecords(count, time.Now()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d records\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", defaultSampleCount, "number of records to generate")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultConfigFile()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration saved to %s\n", path)
			return nil
		},
	})
	return cmd
}
