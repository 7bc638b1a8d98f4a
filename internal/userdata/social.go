package userdata

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/mediamingle/mingle/internal/httpclient"
)

// Profile is a public user profile
type Profile struct {
	ID             int             `json:"id" yaml:"id"`
	Username       string          `json:"username" yaml:"username"`
	Bio            *string         `json:"bio" yaml:"bio,omitempty"`
	AvatarURL      *string         `json:"avatar_url" yaml:"avatar_url,omitempty"`
	CreatedAt      httpclient.Time `json:"created_at" yaml:"created_at"`
	FollowersCount int             `json:"followers_count" yaml:"followers_count"`
	FollowingCount int             `json:"following_count" yaml:"following_count"`
	RatingsCount   int             `json:"ratings_count" yaml:"ratings_count"`
}

// Follower is an entry in a followers or following list
type Follower struct {
	ID         int             `json:"id" yaml:"id"`
	Username   string          `json:"username" yaml:"username"`
	AvatarURL  *string         `json:"avatar_url" yaml:"avatar_url,omitempty"`
	Bio        *string         `json:"bio" yaml:"bio,omitempty"`
	FollowedAt httpclient.Time `json:"followed_at" yaml:"followed_at"`
}

// Activity is an item in the feed of followed users
type Activity struct {
	ID             int             `json:"id" yaml:"id"`
	Username       string          `json:"username" yaml:"username"`
	ActivityType   string          `json:"activity_type" yaml:"activity_type"`
	ContentType    *string         `json:"content_type" yaml:"content_type,omitempty"`
	ContentID      *string         `json:"content_id" yaml:"content_id,omitempty"`
	ContentTitle   *string         `json:"content_title" yaml:"content_title,omitempty"`
	RatingValue    *float64        `json:"rating_value" yaml:"rating_value,omitempty"`
	TargetUsername *string         `json:"target_username" yaml:"target_username,omitempty"`
	CreatedAt      httpclient.Time `json:"created_at" yaml:"created_at"`
}

// Social reads public profiles and manages follows
type Social struct {
	base
}

// NewSocial creates a social client
func NewSocial(api API, session Session, logger *slog.Logger) *Social {
	return &Social{base: newBase(api, session, nil, logger)}
}

// Profile loads a public profile; no sign-in needed
func (s *Social) Profile(ctx context.Context, username string) (*Profile, error) {
	var p Profile
	if err := s.api.Get(ctx, "/users/"+url.PathEscape(username), nil, &p); err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", username, err)
	}
	return &p, nil
}

// UserRatings lists a user's most recent public ratings
func (s *Social) UserRatings(ctx context.Context, username string, limit int) ([]Rating, error) {
	params := map[string]string{}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var list []Rating
	if err := s.api.Get(ctx, "/users/"+url.PathEscape(username)+"/ratings", params, &list); err != nil {
		return nil, fmt.Errorf("failed to load ratings for %s: %w", username, err)
	}
	return list, nil
}

// Follow follows username and returns the resulting state
func (s *Social) Follow(ctx context.Context, username string) (bool, error) {
	return s.setFollow(ctx, username, true)
}

// Unfollow stops following username and returns the resulting state
func (s *Social) Unfollow(ctx context.Context, username string) (bool, error) {
	return s.setFollow(ctx, username, false)
}

// IsFollowing reports whether the signed-in user follows username
func (s *Social) IsFollowing(ctx context.Context, username string) (bool, error) {
	if !s.authenticated() {
		return false, ErrNotAuthenticated
	}

	var resp struct {
		IsFollowing bool `json:"is_following"`
	}
	if err := s.api.Get(ctx, "/follow/check/"+url.PathEscape(username), nil, &resp); err != nil {
		s.failed("follow.check", err)
		return false, err
	}
	return resp.IsFollowing, nil
}

// Followers lists the users following the signed-in user
func (s *Social) Followers(ctx context.Context) ([]Follower, error) {
	return s.followList(ctx, "/followers")
}

// Following lists the users the signed-in user follows
func (s *Social) Following(ctx context.Context) ([]Follower, error) {
	return s.followList(ctx, "/following")
}

// Feed lists recent activity of followed users
func (s *Social) Feed(ctx context.Context, limit int) ([]Activity, error) {
	if !s.authenticated() {
		return nil, ErrNotAuthenticated
	}
	params := map[string]string{}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var list []Activity
	if err := s.api.Get(ctx, "/feed", params, &list); err != nil {
		s.failed("feed", err)
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return list, nil
}

func (s *Social) setFollow(ctx context.Context, username string, follow bool) (bool, error) {
	if !s.authenticated() {
		return false, ErrNotAuthenticated
	}

	var resp struct {
		Message     string `json:"message"`
		IsFollowing bool   `json:"is_following"`
	}
	path := "/follow/" + url.PathEscape(username)

	var err error
	if follow {
		err = s.api.Post(ctx, path, struct{}{}, &resp)
	} else {
		err = s.api.Delete(ctx, path, &resp)
	}
	if err != nil {
		s.failed("follow", err)
		return !follow, fmt.Errorf("failed to update follow for %s: %w", username, err)
	}

	s.logger.Info("follow updated", "username", username, "message", resp.Message)
	return resp.IsFollowing, nil
}

func (s *Social) followList(ctx context.Context, path string) ([]Follower, error) {
	if !s.authenticated() {
		return nil, ErrNotAuthenticated
	}

	var list []Follower
	if err := s.api.Get(ctx, path, nil, &list); err != nil {
		s.failed(path, err)
		return nil, err
	}
	return list, nil
}
