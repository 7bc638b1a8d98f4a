package content

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p/"
	posterSize   = "w300"
	backdropSize = "original"
)

// Catalog payloads are decoded into pointer fields so an absent leaf is nil
// rather than a zero value.

type animeImages struct {
	JPG *struct {
		ImageURL      *string `json:"image_url"`
		LargeImageURL *string `json:"large_image_url"`
	} `json:"jpg"`
}

type animeWire struct {
	MalID    *int         `json:"mal_id"`
	Title    *string      `json:"title"`
	Images   *animeImages `json:"images"`
	Score    *float64     `json:"score"`
	Year     *int         `json:"year"`
	Synopsis *string      `json:"synopsis"`
	Episodes *int         `json:"episodes"`
	Status   *string      `json:"status"`
	Duration *string      `json:"duration"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Trailer *struct {
		YoutubeID *string `json:"youtube_id"`
	} `json:"trailer"`
}

type tmdbWire struct {
	ID           json.Number `json:"id"`
	Title        *string     `json:"title"`
	Name         *string     `json:"name"`
	PosterPath   *string     `json:"poster_path"`
	BackdropPath *string     `json:"backdrop_path"`
	VoteAverage  *float64    `json:"vote_average"`
	ReleaseDate  *string     `json:"release_date"`
	FirstAirDate *string     `json:"first_air_date"`
	Overview     *string     `json:"overview"`
	Runtime      *int        `json:"runtime"`
	Status       *string     `json:"status"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Videos *struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
}

// Normalize turns a list response into items. Anime lists live under "data",
// movie/tv lists under "results". Only undecodable JSON is an error; missing
// lists and fields normalize to empty and nil.
func Normalize(kind MediaKind, body []byte) ([]ContentItem, error) {
	if kind == KindAnime {
		var resp struct {
			Data []animeWire `json:"data"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode anime list: %w", err)
		}
		items := make([]ContentItem, 0, len(resp.Data))
		for _, w := range resp.Data {
			items = append(items, w.item())
		}
		return items, nil
	}

	var resp struct {
		Results []tmdbWire `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", kind, err)
	}
	items := make([]ContentItem, 0, len(resp.Results))
	for _, w := range resp.Results {
		items = append(items, w.item(kind))
	}
	return items, nil
}

// NormalizeDetail decodes a single-item detail response. Anime details are
// wrapped in "data"; movie/tv are the bare object.
func NormalizeDetail(kind MediaKind, body []byte) (*Detail, error) {
	if kind == KindAnime {
		var resp struct {
			Data *animeWire `json:"data"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode anime detail: %w", err)
		}
		if resp.Data == nil {
			return nil, fmt.Errorf("anime detail has no data")
		}
		return resp.Data.detail(), nil
	}

	var w tmdbWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("failed to decode %s detail: %w", kind, err)
	}
	return w.detail(kind), nil
}

func (w animeWire) item() ContentItem {
	item := ContentItem{
		Kind:         KindAnime,
		Title:        deref(w.Title),
		Rating:       w.Score,
		ReleaseYear:  w.Year,
		Overview:     w.Synopsis,
		EpisodeCount: w.Episodes,
	}
	if w.MalID != nil {
		item.ID = strconv.Itoa(*w.MalID)
	}
	if w.Images != nil && w.Images.JPG != nil {
		item.PosterURL = nonEmpty(w.Images.JPG.ImageURL)
		item.BackdropURL = nonEmpty(w.Images.JPG.LargeImageURL)
	}
	return item
}

func (w animeWire) detail() *Detail {
	d := &Detail{ContentItem: w.item(), Status: deref(w.Status)}
	for _, g := range w.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	if w.Trailer != nil && w.Trailer.YoutubeID != nil && *w.Trailer.YoutubeID != "" {
		d.Trailer = &Trailer{Key: *w.Trailer.YoutubeID}
	}
	return d
}

func (w tmdbWire) item(kind MediaKind) ContentItem {
	item := ContentItem{
		ID:       w.ID.String(),
		Kind:     kind,
		Title:    deref(firstNonNil(w.Title, w.Name)),
		Rating:   w.VoteAverage,
		Overview: w.Overview,
	}

	if p := nonEmpty(w.PosterPath); p != nil {
		item.PosterURL = imageURL(posterSize, *p)
	}
	if b := nonEmpty(w.BackdropPath); b != nil {
		item.BackdropURL = imageURL(backdropSize, *b)
	} else if p := nonEmpty(w.PosterPath); p != nil {
		item.BackdropURL = imageURL(backdropSize, *p)
	}

	// an empty release_date still wins over first_air_date
	if date := firstNonNil(w.ReleaseDate, w.FirstAirDate); date != nil {
		item.ReleaseYear = yearOf(*date)
	}
	return item
}

func (w tmdbWire) detail(kind MediaKind) *Detail {
	d := &Detail{
		ContentItem: w.item(kind),
		Runtime:     w.Runtime,
		Status:      deref(w.Status),
	}
	for _, g := range w.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	if w.Videos != nil {
		for _, v := range w.Videos.Results {
			if v.Type == "Trailer" && v.Site == "YouTube" {
				d.Trailer = &Trailer{Key: v.Key}
				break
			}
		}
	}
	return d
}

func imageURL(size, path string) *string {
	u := imageBaseURL + size + path
	return &u
}

func yearOf(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

func firstNonNil(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
