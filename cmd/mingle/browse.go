package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/loader"
)

// runMode loads mode through the same loader the TUI uses, so trending gets
// the retry policy and gated listings drop incomplete items
func runMode(cmd *cobra.Command, mode content.BrowsingMode) error {
	svc, err := openServices(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer svc.Close()

	if mode.Type == content.ModeSearch {
		if err := svc.recent.Record(cmd.Context(), mode.Query); err != nil {
			logger.Warn("failed to record search", "error", err)
		}
	}

	l := loader.New(loader.Options{
		Catalog:   svc.catalog,
		Favorites: svc.favorites,
		History:   svc.history,
		Policy:    loader.PolicyFromConfig(cfg.Loader),
		Publish: func(s loader.State) {
			if s.Retrying {
				fmt.Fprintln(os.Stderr, s.Message)
			}
		},
		Logger: logger.With("component", "loader"),
	})

	state := l.Load(cmd.Context(), mode)
	if state.Status == loader.StatusFailed {
		if state.Err != nil {
			return fmt.Errorf("%s: %w", state.Message, state.Err)
		}
		return fmt.Errorf("%s", state.Message)
	}
	if state.Message != "" && len(state.Items) == 0 && outFormat == "text" {
		fmt.Println(state.Message)
		return nil
	}
	return printItems(state.Items)
}

func kindArg(args []string) (content.MediaKind, error) {
	if len(args) == 0 {
		return content.KindMovie, nil
	}
	return content.ParseKind(args[0])
}

var trendingCmd = &cobra.Command{
	Use:   "trending [movie|tv|anime]",
	Short: "List what is trending",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindArg(args)
		if err != nil {
			return err
		}
		return runMode(cmd, content.Trending(kind))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <movie|tv|anime> <query>",
	Short: "Search titles by name",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := content.ParseKind(args[0])
		if err != nil {
			return err
		}
		query := strings.TrimSpace(strings.Join(args[1:], " "))
		if query == "" {
			return fmt.Errorf("search query must not be empty")
		}
		return runMode(cmd, content.Search(kind, query))
	},
}

var moodCmd = &cobra.Command{
	Use:   "mood <movie|tv|anime> <mood>",
	Short: "Recommend titles for a mood",
	Long: `Recommend titles for a mood.

Moods: happy, sad, exciting, scary, thoughtful, relaxing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := content.ParseKind(args[0])
		if err != nil {
			return err
		}
		mood := strings.ToLower(args[1])
		if !content.ValidMood(mood) {
			return fmt.Errorf("unknown mood %q", args[1])
		}
		return runMode(cmd, content.Mood(kind, mood))
	},
}

var discoverFlags struct {
	genre     string
	genres    []string
	yearMin   int
	yearMax   int
	ratingMin float64
	language  string
	sortBy    string
	season    string
}

var discoverCmd = &cobra.Command{
	Use:   "discover <movie|tv|anime>",
	Short: "Browse by genre or an advanced filter",
	Long: `Browse by genre or an advanced filter.

With --genre the quick genre row is used. Otherwise the remaining flags
build an advanced filter starting from the defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := content.ParseKind(args[0])
		if err != nil {
			return err
		}

		if discoverFlags.genre != "" {
			if _, ok := content.GenreID(kind, discoverFlags.genre); !ok {
				fmt.Printf("No %s genre called %q.\n", kind.Label(), discoverFlags.genre)
				return nil
			}
			return runMode(cmd, content.Genre(kind, discoverFlags.genre))
		}

		spec := content.DefaultFilter(kind)
		flags := cmd.Flags()
		if flags.Changed("year-min") {
			spec.YearMin = discoverFlags.yearMin
		}
		if flags.Changed("year-max") {
			spec.YearMax = discoverFlags.yearMax
		}
		if flags.Changed("rating-min") {
			spec.RatingMin = discoverFlags.ratingMin
		}
		if flags.Changed("sort") {
			spec.SortBy = discoverFlags.sortBy
		}
		spec.Language = discoverFlags.language
		spec.Genres = discoverFlags.genres
		spec.Season = discoverFlags.season

		if err := spec.Validate(); err != nil {
			return err
		}
		return runMode(cmd, content.AdvancedFilter(kind, spec))
	},
}

var detailOpen bool

var detailCmd = &cobra.Command{
	Use:   "detail <movie|tv|anime> <id>",
	Short: "Show one title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := content.ParseKind(args[0])
		if err != nil {
			return err
		}

		if detailOpen {
			url := webURL(kind.WebPath(args[1]))
			if err := browser.OpenURL(url); err != nil {
				fmt.Printf("Could not open a browser. Visit %s\n", url)
			}
			return nil
		}

		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()

		d, err := svc.catalog.Detail(cmd.Context(), kind, args[1])
		if err != nil {
			return err
		}
		if err := svc.history.Record(cmd.Context(), d.ContentItem); err != nil {
			logger.Warn("failed to record history", "error", err)
		}
		return printDetail(d)
	},
}

func init() {
	f := discoverCmd.Flags()
	f.StringVar(&discoverFlags.genre, "genre", "", "quick genre label (e.g. Action)")
	f.StringSliceVar(&discoverFlags.genres, "genres", nil, "genre ids for the advanced filter")
	f.IntVar(&discoverFlags.yearMin, "year-min", 0, "earliest release year")
	f.IntVar(&discoverFlags.yearMax, "year-max", 0, "latest release year")
	f.Float64Var(&discoverFlags.ratingMin, "rating-min", 0, "minimum rating, 0-10 in steps of 0.5")
	f.StringVar(&discoverFlags.language, "language", "", "original language code (e.g. en, ja)")
	f.StringVar(&discoverFlags.sortBy, "sort", "", "sort order")
	f.StringVar(&discoverFlags.season, "season", "", "anime season (winter, spring, summer, fall)")
	discoverCmd.MarkFlagsMutuallyExclusive("genre", "genres")

	detailCmd.Flags().BoolVar(&detailOpen, "open", false, "open the title on the web site instead")

	rootCmd.AddCommand(trendingCmd, searchCmd, moodCmd, discoverCmd, detailCmd)
}
