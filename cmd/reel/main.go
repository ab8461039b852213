package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/backend"
	"github.com/mmcdole/reel/internal/carousel"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/logging"
	"github.com/mmcdole/reel/internal/metadata"
	"github.com/mmcdole/reel/internal/player"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tags"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var configDir string

func main() {
	rootCmd := &cobra.Command{
		Use:           "reel",
		Short:         "Terminal carousel for rating and tagging a photo library",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default "+config.DefaultConfigPath()+")")

	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(histogramCmd())
	rootCmd.AddCommand(metadataCmd())
	rootCmd.AddCommand(tagsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the collaborators every subcommand shares
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *backend.Client
	store  *store.CatalogStore
}

func setup() (*app, error) {
	cfg, err := config.LoadConfigFrom(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	}
	slog.SetDefault(logger)

	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("no server configured, run: reel config init --url <server>")
	}

	st, err := store.NewCatalogStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		logger.Warn("catalog store unavailable, caching in memory", "error", err)
		st, _ = store.NewCatalogStore("", cfg.Server.URL)
	}

	logger.Info("starting reel", "version", Version, "server", cfg.Server.URL)
	return &app{
		cfg:    cfg,
		logger: logger,
		client: backend.NewClient(cfg.Server.URL, cfg.Server.Username, cfg.Server.Password, logger),
		store:  st,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

// loadDirectory lists a directory from the store, or from the server when
// missing or refresh is set
func (a *app) loadDirectory(ctx context.Context, dirID string, refresh bool) (*domain.Directory, []*domain.Item, error) {
	if !refresh {
		if dir, items, ok := a.store.GetDirectory(dirID); ok {
			a.logger.Debug("directory from store", "dirID", dirID, "items", len(items))
			return dir, items, nil
		}
	}

	dir, items, err := a.client.GetDirectory(ctx, dirID)
	if err != nil {
		return nil, nil, err
	}
	if err := a.store.SaveDirectory(dir, items); err != nil {
		a.logger.Warn("failed to save directory", "dirID", dirID, "error", err)
	}
	return dir, items, nil
}

// filterFlags selects the working set of a directory, like the star and
// label toggles of a directory view
type filterFlags struct {
	stars  []int
	picks  []string
	colors []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&f.stars, "stars", nil, "only items with these ratings (0 = unrated)")
	cmd.Flags().StringSliceVar(&f.picks, "pick", nil, "only items with these pick labels (none = unlabeled)")
	cmd.Flags().StringSliceVar(&f.colors, "color", nil, "only items with these color labels (none = unlabeled)")
}

func (f *filterFlags) apply(items []*domain.Item, labels domain.LabelSettings) ([]*domain.Item, error) {
	filter, err := domain.NewItemFilter(f.stars, f.picks, f.colors, labels)
	if err != nil {
		return nil, err
	}
	return filter.Apply(items), nil
}

// openSession opens a carousel over items. Accepted edits drop the saved
// listing of dir so the next open reads the server's values.
func (a *app) openSession(ctx context.Context, dir *domain.Directory, items []*domain.Item, start *domain.Item) (*carousel.Session, *carousel.Factory, error) {
	width, height := a.cfg.Viewport.ResolveViewport()
	bounds := carousel.BoundsForViewport(width, height, a.cfg.Viewport.Scale)
	factory := carousel.NewFactory(a.client.BaseURL(), a.client, a.logger)

	session, err := carousel.Open(ctx, items, start, carousel.Options{
		Factory: factory,
		Actions: a.client,
		Labels:  a.cfg.Labels,
		Bounds:  bounds,
		Logger:  a.logger,
		OnApply: func(carousel.Edit) {
			a.store.InvalidateDirectory(dir.ID)
		},
	})
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("carousel bounds", "dirID", dir.ID, "bounds", bounds)
	return session, factory, nil
}

func viewCmd() *cobra.Command {
	var startID string
	var refresh bool
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "view <directory-id>",
		Short: "Open the carousel over a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			dir, items, err := a.loadDirectory(ctx, args[0], refresh)
			cancel()
			if err != nil {
				return fmt.Errorf("failed to load directory: %w", err)
			}

			items, err = filter.apply(items, a.cfg.Labels)
			if err != nil {
				return err
			}

			start, err := findItem(items, startID)
			if err != nil {
				return err
			}

			session, factory, err := a.openSession(context.Background(), dir, items, start)
			if err != nil {
				return err
			}
			defer session.Close()

			model := tui.NewModel(session, tui.ModelOptions{
				Factory:   factory,
				TagSvc:    tags.NewService(a.client, a.store, a.logger),
				Metadata:  a.client,
				Opener:    player.NewLauncher(a.cfg.Player.Command, a.cfg.Player.Args, a.logger),
				Labels:    a.cfg.Labels,
				Directory: dir,
			})

			p := tea.NewProgram(model, tea.WithAltScreen())

			a.logger.Info("starting TUI", "dirID", dir.ID, "items", len(items))
			if _, err := p.Run(); err != nil {
				a.logger.Error("TUI error", "error", err)
				return fmt.Errorf("TUI error: %w", err)
			}
			a.logger.Info("shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&startID, "start", "", "item id to open the carousel on")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the listing from the server")
	filter.register(cmd)
	return cmd
}

// findItem returns the item with id, or the first item when id is empty
func findItem(items []*domain.Item, id string) (*domain.Item, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptySet
	}
	if id == "" {
		return items[0], nil
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
}

func histogramCmd() *cobra.Command {
	var refresh bool
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "histogram <directory-id>",
		Short: "Print the rating histogram of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			_, items, err := a.loadDirectory(cmd.Context(), args[0], refresh)
			if err != nil {
				return err
			}
			items, err = filter.apply(items, a.cfg.Labels)
			if err != nil {
				return err
			}

			h := carousel.NewHistogram(items)
			for _, b := range h.Buckets() {
				stars := strings.Repeat("★", b.Rating) + strings.Repeat("☆", domain.MaxRating-b.Rating)
				fmt.Printf("%s  %s\n", stars, b)
			}
			fmt.Printf("%d of %d rated\n", h.Total, len(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the listing from the server")
	filter.register(cmd)
	return cmd
}

func metadataCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "metadata <item-id>",
		Short: "Print the grouped metadata of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			raw, err := a.client.GetMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, g := range metadata.Filter(metadata.GroupBy(raw), filter) {
				fmt.Println(g.Name)
				for _, e := range g.Entries {
					fmt.Printf("  %-32s %s\n", e.Key, e.Value)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter over keys and values")
	return cmd
}

func tagsCmd() *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "tags [query]",
		Short: "List catalog tags, or the ones matching a query (e.g. places/beach, *)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			svc := tags.NewService(a.client, a.store, a.logger)
			catalog, err := svc.Load(cmd.Context(), reload)
			if err != nil {
				return err
			}

			found := catalog.All()
			if len(args) == 1 {
				found = svc.Suggest(args[0])
			}
			for _, t := range found {
				fmt.Printf("%-8s %s\n", t.ID, t.FullName)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reload, "reload", false, "reload the catalog from the server")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var url, username, password string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file for a server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFrom(configDir)
			if err != nil {
				return err
			}
			cfg.Server.URL = strings.TrimRight(url, "/")
			cfg.Server.Username = username
			cfg.Server.Password = password

			if err := config.SaveConfig(cfg, configDir); err != nil {
				return err
			}
			fmt.Println("✓ Configuration saved!")
			return nil
		},
	}
	initCmd.Flags().StringVar(&url, "url", "", "server URL (e.g., http://192.168.1.100:8000)")
	initCmd.Flags().StringVar(&username, "username", "", "basic auth user")
	initCmd.Flags().StringVar(&password, "password", "", "basic auth password")
	_ = initCmd.MarkFlagRequired("url")

	cmd.AddCommand(initCmd)
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local listing and tag cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached listing and the tag catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			a.store.InvalidateAll()
			fmt.Println("✓ Cache cleared")
			return nil
		},
	})
	return cmd
}
