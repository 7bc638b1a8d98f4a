package userdata

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
)

// MaxReviewLength is the longest review the backend accepts, in characters
const MaxReviewLength = 500

// Rating sort orders understood by the backend
const (
	SortRatedAt = "rated_at"
	SortRating  = "rating"
	SortTitle   = "title"
)

// Rating is one of the user's ratings
type Rating struct {
	ID int `json:"id" yaml:"id"`
	Record `yaml:",inline"`
	Rating  float64         `json:"rating" yaml:"rating"`
	Review  *string         `json:"review" yaml:"review,omitempty"`
	RatedAt httpclient.Time `json:"rated_at" yaml:"rated_at"`
}

// RatingInput creates (or overwrites) the rating for a title
type RatingInput struct {
	Item   content.ContentItem
	Rating float64
	Review string
}

// RatingUpdate changes an existing rating
type RatingUpdate struct {
	Rating float64 `json:"rating"`
	Review string  `json:"review"`
}

// RatingQuery filters and orders the ratings list
type RatingQuery struct {
	Kind      content.MediaKind // empty for all kinds
	MinRating float64
	SortBy    string
}

// RatingLookup is the user's rating for one title, if any
type RatingLookup struct {
	HasRating bool            `json:"has_rating"`
	Rating    float64         `json:"rating"`
	Review    *string         `json:"review"`
	RatedAt   httpclient.Time `json:"rated_at"`
	RatingID  int             `json:"rating_id"`
}

// RatedTitle is a highlight in Stats
type RatedTitle struct {
	Title     string  `json:"title" yaml:"title"`
	Rating    float64 `json:"rating" yaml:"rating"`
	PosterURL *string `json:"poster_url" yaml:"poster_url,omitempty"`
}

// Stats aggregates the user's ratings
type Stats struct {
	TotalRatings  int         `json:"total_ratings" yaml:"total_ratings"`
	AverageRating float64     `json:"average_rating" yaml:"average_rating"`
	HighestRated  *RatedTitle `json:"highest_rated" yaml:"highest_rated,omitempty"`
	LowestRated   *RatedTitle `json:"lowest_rated" yaml:"lowest_rated,omitempty"`
}

// ValidateRating checks a rating value and review before any request
func ValidateRating(rating float64, review string) error {
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return fmt.Errorf("%w: not a number", ErrInvalidRating)
	}
	if rating <= 0 {
		return fmt.Errorf("%w: select at least one star", ErrInvalidRating)
	}
	if rating > 10 {
		return fmt.Errorf("%w: %.1f is above 10", ErrInvalidRating, rating)
	}
	if utf8.RuneCountInString(review) > MaxReviewLength {
		return fmt.Errorf("%w: review is longer than %d characters", ErrInvalidRating, MaxReviewLength)
	}
	return nil
}

// Ratings caches the user's ratings for the overview view. The list is
// reloaded from the backend after every mutation.
type Ratings struct {
	base

	mu    sync.RWMutex
	list  []Rating
	query RatingQuery
	rated map[string]bool // lookup results by membership key
}

// NewRatings creates an empty ratings store
func NewRatings(api API, session Session, alerter Alerter, logger *slog.Logger) *Ratings {
	return &Ratings{
		base:  newBase(api, session, alerter, logger),
		query: RatingQuery{SortBy: SortRatedAt},
		rated: map[string]bool{},
	}
}

// Refresh reloads the list with q, which becomes the query later reloads use
func (r *Ratings) Refresh(ctx context.Context, q RatingQuery) error {
	if !r.authenticated() {
		r.set(nil, q)
		return ErrNotAuthenticated
	}

	params := map[string]string{}
	if q.Kind != "" {
		params["content_type"] = q.Kind.ContentType()
	}
	if q.MinRating > 0 {
		params["min_rating"] = strconv.FormatFloat(q.MinRating, 'f', -1, 64)
	}
	if q.SortBy != "" {
		params["sort_by"] = q.SortBy
	}

	var list []Rating
	if err := r.api.Get(ctx, "/ratings", params, &list); err != nil {
		r.failed("ratings.refresh", err)
		return fmt.Errorf("failed to load ratings: %w", err)
	}
	r.set(list, q)
	return nil
}

// List returns a copy of the cached ratings
func (r *Ratings) List() []Rating {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Rating(nil), r.list...)
}

// Query returns the query the cached list was loaded with
func (r *Ratings) Query() RatingQuery {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.query
}

// Submit rates a title. The backend overwrites an existing rating for the
// same title.
func (r *Ratings) Submit(ctx context.Context, in RatingInput) (*Rating, error) {
	if err := ValidateRating(in.Rating, in.Review); err != nil {
		return nil, err
	}
	if !r.authenticated() {
		return nil, ErrNotAuthenticated
	}

	body := struct {
		Record
		Rating float64 `json:"rating"`
		Review string  `json:"review"`
	}{RecordFor(in.Item), in.Rating, in.Review}

	var saved Rating
	if err := r.api.Post(ctx, "/ratings", body, &saved); err != nil {
		r.failed("ratings.submit", err)
		return nil, fmt.Errorf("failed to submit rating: %w", err)
	}
	return &saved, r.Refresh(ctx, r.Query())
}

// Update changes the value and review of rating id
func (r *Ratings) Update(ctx context.Context, id int, upd RatingUpdate) (*Rating, error) {
	if err := ValidateRating(upd.Rating, upd.Review); err != nil {
		return nil, err
	}
	if !r.authenticated() {
		return nil, ErrNotAuthenticated
	}

	var saved Rating
	if err := r.api.Put(ctx, "/ratings/"+strconv.Itoa(id), upd, &saved); err != nil {
		r.failed("ratings.update", err)
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}
	return &saved, r.Refresh(ctx, r.Query())
}

// Delete removes rating id, alerting on failure
func (r *Ratings) Delete(ctx context.Context, id int) error {
	if !r.authenticated() {
		return ErrNotAuthenticated
	}

	if err := r.api.Delete(ctx, "/ratings/"+strconv.Itoa(id), nil); err != nil {
		r.failed("ratings.delete", err)
		r.alerter.Alert(alertMessage("delete rating", err))
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return r.Refresh(ctx, r.Query())
}

// Lookup fetches the user's rating for one title
func (r *Ratings) Lookup(ctx context.Context, kind content.MediaKind, id string) (*RatingLookup, error) {
	if !r.authenticated() {
		return nil, ErrNotAuthenticated
	}

	var out RatingLookup
	path := fmt.Sprintf("/ratings/%s/%s", kind.ContentType(), id)
	if err := r.api.Get(ctx, path, nil, &out); err != nil {
		r.failed("ratings.lookup", err)
		return nil, err
	}

	r.mu.Lock()
	r.rated[content.Key(kind, id)] = out.HasRating
	r.mu.Unlock()
	return &out, nil
}

// Rated reports whether the title is known to be rated, from the last Lookup
// for it or else the cached list
func (r *Ratings) Rated(kind content.MediaKind, id string) bool {
	key := content.Key(kind, id)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if rated, ok := r.rated[key]; ok {
		return rated
	}
	for _, rt := range r.list {
		if rt.Key() == key {
			return true
		}
	}
	return false
}

// Stats fetches the aggregate numbers for the overview
func (r *Ratings) Stats(ctx context.Context) (*Stats, error) {
	if !r.authenticated() {
		return nil, ErrNotAuthenticated
	}

	var out Stats
	if err := r.api.Get(ctx, "/ratings/stats", nil, &out); err != nil {
		r.failed("ratings.stats", err)
		return nil, fmt.Errorf("failed to load rating stats: %w", err)
	}
	return &out, nil
}

func (r *Ratings) set(list []Rating, q RatingQuery) {
	r.mu.Lock()
	r.list = list
	r.query = q
	r.rated = map[string]bool{}
	r.mu.Unlock()
}
