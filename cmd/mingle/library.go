package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/userdata"
)

// withSession opens the services and fails early when nobody is signed in
func withSession(cmd *cobra.Command, fn func(ctx context.Context, svc *services) error) error {
	svc, err := openServices(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.requireSession(); err != nil {
		return err
	}
	return fn(cmd.Context(), svc)
}

// lookupItem fetches a title so stored records carry its name and poster
func lookupItem(ctx context.Context, svc *services, kindArg, id string) (content.ContentItem, error) {
	kind, err := content.ParseKind(kindArg)
	if err != nil {
		return content.ContentItem{}, err
	}
	d, err := svc.catalog.Detail(ctx, kind, id)
	if err != nil {
		return content.ContentItem{}, err
	}
	return d.ContentItem, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// confirm asks a yes/no question unless --yes was given
func confirm(cmd *cobra.Command, question string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "List your favorites",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.favorites.Refresh(ctx); err != nil {
				return err
			}
			return printFavorites(svc.favorites.List())
		})
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <movie|tv|anime> <id>",
	Short: "Add a title to your favorites",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			item, err := lookupItem(ctx, svc, args[0], args[1])
			if err != nil {
				return err
			}
			if err := svc.favorites.Refresh(ctx); err != nil {
				return err
			}
			if svc.favorites.IsFavorite(item.Kind, item.ID) {
				fmt.Printf("%s is already a favorite.\n", item.Title)
				return nil
			}
			if err := svc.favorites.Add(ctx, item); err != nil {
				return err
			}
			fmt.Printf("♥ Added %s to favorites\n", item.Title)
			return nil
		})
	},
}

var favoritesRmCmd = &cobra.Command{
	Use:   "rm <movie|tv|anime> <id>",
	Short: "Remove a title from your favorites",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := content.ParseKind(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			found, favID, err := svc.favorites.Check(ctx, kind, args[1])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s %s is not a favorite", kind, args[1])
			}
			if err := svc.favorites.Remove(ctx, favID); err != nil {
				return err
			}
			fmt.Println("Removed from favorites")
			return nil
		})
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently viewed titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.history.Refresh(ctx, historyLimit); err != nil {
				return err
			}
			return printHistory(svc.history.List())
		})
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <entry-id>",
	Short: "Remove one history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.history.DeleteOne(ctx, id); err != nil {
				return err
			}
			fmt.Println("Removed from history")
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear your whole watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			if !confirm(cmd, "Clear your entire watch history?") {
				fmt.Println("Cancelled")
				return nil
			}
			if err := svc.history.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil
		})
	},
}

var ratingsFlags struct {
	kind      string
	minRating float64
	sortBy    string
	review    string
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "List your ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := userdata.RatingQuery{MinRating: ratingsFlags.minRating, SortBy: ratingsFlags.sortBy}
		if ratingsFlags.kind != "" {
			kind, err := content.ParseKind(ratingsFlags.kind)
			if err != nil {
				return err
			}
			q.Kind = kind
		}
		switch q.SortBy {
		case userdata.SortRatedAt, userdata.SortRating, userdata.SortTitle:
		default:
			return fmt.Errorf("unknown sort %q (want rated_at, rating or title)", q.SortBy)
		}

		return withSession(cmd, func(ctx context.Context, svc *services) error {
			if err := svc.ratings.Refresh(ctx, q); err != nil {
				return err
			}
			return printRatings(svc.ratings.List())
		})
	},
}

func parseRating(s string) (float64, error) {
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q", s)
	}
	return rating, userdata.ValidateRating(rating, ratingsFlags.review)
}

// reportSaved confirms a stored rating. A rating that was saved but could not
// be re-listed still prints its confirmation before the error is returned.
func reportSaved(saved *userdata.Rating, err error, line func(*userdata.Rating) string) error {
	if saved == nil {
		return err
	}
	fmt.Println(line(saved))
	return err
}

var ratingsSetCmd = &cobra.Command{
	Use:   "set <movie|tv|anime> <id> <rating>",
	Short: "Rate a title from 0.5 to 10",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := parseRating(args[2])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			item, err := lookupItem(ctx, svc, args[0], args[1])
			if err != nil {
				return err
			}
			saved, err := svc.ratings.Submit(ctx, userdata.RatingInput{Item: item, Rating: rating, Review: ratingsFlags.review})
			return reportSaved(saved, err, func(r *userdata.Rating) string {
				return fmt.Sprintf("Rated %s %.1f/10", item.Title, r.Rating)
			})
		})
	},
}

var ratingsUpdateCmd = &cobra.Command{
	Use:   "update <rating-id> <rating>",
	Short: "Change one of your ratings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		rating, err := parseRating(args[1])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			saved, err := svc.ratings.Update(ctx, id, userdata.RatingUpdate{Rating: rating, Review: ratingsFlags.review})
			return reportSaved(saved, err, func(r *userdata.Rating) string {
				return fmt.Sprintf("Updated %s to %.1f/10", r.Title, r.Rating)
			})
		})
	},
}

var ratingsRmCmd = &cobra.Command{
	Use:   "rm <rating-id>",
	Short: "Delete one of your ratings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			if !confirm(cmd, "Delete this rating?") {
				fmt.Println("Cancelled")
				return nil
			}
			if err := svc.ratings.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Rating deleted")
			return nil
		})
	},
}

var ratingsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and highlights of your ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, svc *services) error {
			stats, err := svc.ratings.Stats(ctx)
			if err != nil {
				return err
			}
			return printStats(stats)
		})
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()
		return printStrings(svc.recent.List(), "No recent searches.")
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer svc.Close()
		if err := svc.recent.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Recent searches cleared")
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesRmCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", userdata.DefaultHistoryLimit, "how many entries to show")
	historyClearCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	historyCmd.AddCommand(historyRmCmd, historyClearCmd)

	ratingsCmd.Flags().StringVar(&ratingsFlags.kind, "kind", "", "only show movie, tv or anime")
	ratingsCmd.Flags().Float64Var(&ratingsFlags.minRating, "min", 0, "only show ratings at or above this value")
	ratingsCmd.Flags().StringVar(&ratingsFlags.sortBy, "sort", userdata.SortRatedAt, "sort by rated_at, rating or title")
	ratingsSetCmd.Flags().StringVar(&ratingsFlags.review, "review", "", "optional review text")
	ratingsUpdateCmd.Flags().StringVar(&ratingsFlags.review, "review", "", "optional review text")
	ratingsRmCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	ratingsCmd.AddCommand(ratingsSetCmd, ratingsUpdateCmd, ratingsRmCmd, ratingsStatsCmd)

	recentCmd.AddCommand(recentClearCmd)

	rootCmd.AddCommand(favoritesCmd, historyCmd, ratingsCmd, recentCmd)
}
