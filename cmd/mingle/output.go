package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/tui/utils"
	"github.com/mediamingle/mingle/internal/userdata"
)

// render prints v as YAML when --output yaml is set, otherwise calls text
func render(v any, text func()) error {
	switch strings.ToLower(outFormat) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	case "", "text":
		text()
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or yaml)", outFormat)
	}
}

func printItems(items []content.ContentItem) error {
	return render(items, func() {
		if len(items) == 0 {
			fmt.Println("No results.")
			return
		}
		for i, item := range items {
			fmt.Printf("%d. %s", i+1, item.Title)
			if y := item.Year(); y > 0 {
				fmt.Printf(" (%d)", y)
			}
			fmt.Println()
			fmt.Printf("   ID: %s/%s\n", item.Kind, item.ID)
			if item.Rating != nil {
				fmt.Printf("   Rating: %.1f/10\n", item.Score())
			}
			if item.EpisodeCount != nil {
				fmt.Printf("   Episodes: %d\n", *item.EpisodeCount)
			}
		}
	})
}

func printDetail(d *content.Detail) error {
	return render(d, func() {
		fmt.Println(d.Title)
		if y := d.Year(); y > 0 {
			fmt.Printf("Year: %d\n", y)
		}
		if d.Rating != nil {
			fmt.Printf("Rating: %.1f/10 %s\n", d.Score(), utils.Stars(d.Score()))
		}
		if s := d.Synopsis(); s != "" {
			fmt.Printf("\n%s\n", s)
		}
		fmt.Printf("\n%s\n", webURL(d.Kind.WebPath(d.ID)))
	})
}

func printFavorites(list []userdata.Favorite) error {
	return render(list, func() {
		if len(list) == 0 {
			fmt.Println("No favorites yet.")
			return
		}
		for _, f := range list {
			fmt.Printf("%4d  %-6s %s  (added %s)\n", f.ID, f.Kind(), f.Title, humanize.Time(f.AddedAt.Time))
		}
	})
}

func printHistory(list []userdata.HistoryEntry) error {
	return render(list, func() {
		if len(list) == 0 {
			fmt.Println("Nothing watched yet.")
			return
		}
		for _, h := range list {
			fmt.Printf("%4d  %-6s %s  (%s)\n", h.ID, h.Kind(), h.Title, humanize.Time(h.ViewedAt.Time))
		}
	})
}

func printRatings(list []userdata.Rating) error {
	return render(list, func() {
		if len(list) == 0 {
			fmt.Println("No ratings yet.")
			return
		}
		for _, r := range list {
			fmt.Printf("%4d  %-6s %s  %s %.1f  (%s)\n", r.ID, r.Kind(), r.Title,
				utils.Stars(r.Rating), r.Rating, humanize.Time(r.RatedAt.Time))
			if r.Review != nil && *r.Review != "" {
				fmt.Printf("      %q\n", *r.Review)
			}
		}
	})
}

func printStats(s *userdata.Stats) error {
	return render(s, func() {
		fmt.Printf("Ratings: %d\n", s.TotalRatings)
		fmt.Printf("Average: %.1f/10\n", s.AverageRating)
		if s.HighestRated != nil {
			fmt.Printf("Highest: %s (%.1f)\n", s.HighestRated.Title, s.HighestRated.Rating)
		}
		if s.LowestRated != nil {
			fmt.Printf("Lowest:  %s (%.1f)\n", s.LowestRated.Title, s.LowestRated.Rating)
		}
	})
}

func printProfile(p *userdata.Profile, following bool) error {
	return render(p, func() {
		fmt.Printf("%s\n", p.Username)
		if p.Bio != nil && *p.Bio != "" {
			fmt.Printf("%s\n", *p.Bio)
		}
		fmt.Printf("Followers: %d  Following: %d  Ratings: %d\n", p.FollowersCount, p.FollowingCount, p.RatingsCount)
		fmt.Printf("Joined %s\n", humanize.Time(p.CreatedAt.Time))
		if following {
			fmt.Println("You follow this user.")
		}
	})
}

func printFollowers(list []userdata.Follower) error {
	return render(list, func() {
		if len(list) == 0 {
			fmt.Println("Nobody here yet.")
			return
		}
		for _, f := range list {
			fmt.Printf("%s  (since %s)\n", f.Username, humanize.Time(f.FollowedAt.Time))
		}
	})
}

func printStrings(list []string, empty string) error {
	return render(list, func() {
		if len(list) == 0 {
			fmt.Println(empty)
			return
		}
		for i, s := range list {
			fmt.Printf("%d. %s\n", i+1, s)
		}
	})
}

func webURL(path string) string {
	return strings.TrimRight(cfg.API.WebURL, "/") + path
}
