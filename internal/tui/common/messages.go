package common

import (
	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/loader"
	"github.com/mediamingle/mingle/internal/session"
	"github.com/mediamingle/mingle/internal/userdata"
)

// This file contains custom tea.Msg types for communication between components.

// LoaderStateMsg carries a loader publication or a finished load
type LoaderStateMsg struct {
	State loader.State
	Final bool
}

// AlertMsg is a user-facing alert raised by a store
type AlertMsg struct {
	Text string
}

// StatusMsg shows a short-lived footer message
type StatusMsg struct {
	Text string
}

// SubmitSearchMsg asks for a search with Query
type SubmitSearchMsg struct {
	Query string
}

// SearchBlurredMsg is sent when the search field gives up focus
type SearchBlurredMsg struct{}

// ClearRecentSearchesMsg asks to drop the recent-search list
type ClearRecentSearchesMsg struct{}

// OpenDetailMsg navigates to the detail view for Item
type OpenDetailMsg struct {
	Item content.ContentItem
}

// DetailLoadedMsg delivers a detail fetch and the per-user state around it
type DetailLoadedMsg struct {
	Item       content.ContentItem
	Detail     *content.Detail
	Favorite   bool
	FavoriteID int
	Rating     *userdata.RatingLookup
	Err        error
}

// ToggleFavoriteMsg asks to add or remove Item from favorites
type ToggleFavoriteMsg struct {
	Item content.ContentItem
}

// FavoriteToggledMsg reports a finished toggle
type FavoriteToggledMsg struct {
	Item  content.ContentItem
	Added bool
	Err   error
}

// OpenRatingMsg opens the rating modal for Item
type OpenRatingMsg struct {
	Item content.ContentItem
}

// SubmitRatingMsg is sent by the rating modal. ID is set when editing.
type SubmitRatingMsg struct {
	Item   content.ContentItem
	ID     int
	Rating float64
	Review string
}

// RatingSavedMsg reports a submitted or updated rating
type RatingSavedMsg struct {
	Item   content.ContentItem
	Rating *userdata.Rating
	Err    error
}

// DeleteRatingMsg asks to delete rating ID
type DeleteRatingMsg struct {
	ID int
}

// RatingDeletedMsg reports a rating delete
type RatingDeletedMsg struct {
	ID  int
	Err error
}

// RatingsLoadedMsg delivers the ratings overview
type RatingsLoadedMsg struct {
	Ratings []userdata.Rating
	Stats   *userdata.Stats
	Err     error
}

// RatingQueryMsg reloads the overview with a new filter or sort
type RatingQueryMsg struct {
	Query userdata.RatingQuery
}

// RemoveHistoryMsg asks to delete one history entry
type RemoveHistoryMsg struct {
	ID int
}

// HistoryRemovedMsg reports a history delete
type HistoryRemovedMsg struct {
	ID  int
	Err error
}

// ClearHistoryMsg asks to clear the whole history, after confirmation
type ClearHistoryMsg struct{}

// HistoryClearedMsg reports a history clear
type HistoryClearedMsg struct {
	Err error
}

// ProfileLoadedMsg delivers a profile page
type ProfileLoadedMsg struct {
	Username  string
	Profile   *userdata.Profile
	Ratings   []userdata.Rating
	Following bool
	Own       bool
	Followers []userdata.Follower
	Followees []userdata.Follower
	Feed      []userdata.Activity
	Err       error
}

// FollowMsg follows or unfollows Username
type FollowMsg struct {
	Username string
	Follow   bool
}

// FollowedMsg reports a follow change
type FollowedMsg struct {
	Username  string
	Following bool
	Err       error
}

// LoginMsg asks to sign in
type LoginMsg struct {
	Email    string
	Password string
}

// SignupMsg asks to create an account and sign in with it
type SignupMsg struct {
	Email    string
	Username string
	Password string
}

// LoginResultMsg reports a sign-in or sign-up attempt
type LoginResultMsg struct {
	User   *session.User
	Signup bool
	Err    error
}

// LoggedOutMsg reports that the session was dropped
type LoggedOutMsg struct{}

// CancelMsg closes the active modal or form
type CancelMsg struct{}

// OpenURLMsg reports opening a link in the browser
type OpenURLMsg struct {
	URL string
	Err error
}

// ApplyFilterMsg applies an advanced filter from the filter panel
type ApplyFilterMsg struct {
	Spec content.FilterSpec
}

// LinkAction is what to do with a public link
type LinkAction int

const (
	LinkCopy LinkAction = iota
	LinkShare
	LinkOpen
)

// LinkMsg asks to copy, share or open the public page for Item
type LinkMsg struct {
	Item   content.ContentItem
	Action LinkAction
}

// OpenTrailerMsg asks to open a trailer in the browser
type OpenTrailerMsg struct {
	URL string
}

// SelectMoodMsg picks a mood for the active tab
type SelectMoodMsg struct {
	Mood string
}

// SelectGenreMsg picks a quick genre for the active tab
type SelectGenreMsg struct {
	Label string
}

// BackMsg asks to return to the previous view
type BackMsg struct{}

// ViewProfileMsg opens a profile; an empty Username means the signed-in user
type ViewProfileMsg struct {
	Username string
}
