package tui

// This file holds the handlers that read or change the signed-in user's data:
// details with per-user state, favorites, ratings, history, profiles and the
// session itself.

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/content"
	"github.com/mediamingle/mingle/internal/httpclient"
	"github.com/mediamingle/mingle/internal/tui/common"
	"github.com/mediamingle/mingle/internal/userdata"
)

// profileListLimit caps the ratings and feed rows fetched for a profile
const profileListLimit = 20

// ratingLookupMsg refreshes the rating shown on a detail view
type ratingLookupMsg struct {
	item   content.ContentItem
	lookup *userdata.RatingLookup
}

// loadDetail fetches a title plus, when signed in, its favorite and rating
// state
func (a *App) loadDetail(item content.ContentItem) tea.Cmd {
	ctx, signedIn := a.ctx, a.signedIn()
	return func() tea.Msg {
		out := common.DetailLoadedMsg{Item: item}
		out.Detail, out.Err = a.catalog.Detail(ctx, item.Kind, item.ID)
		if out.Err != nil || !signedIn {
			return out
		}

		if fav, id, err := a.favorites.Check(ctx, item.Kind, item.ID); err == nil {
			out.Favorite, out.FavoriteID = fav, id
		} else {
			a.logger.Warn("favorite check failed", "key", item.Key(), "error", err)
		}
		if lookup, err := a.ratings.Lookup(ctx, item.Kind, item.ID); err == nil {
			out.Rating = lookup
		} else {
			a.logger.Warn("rating lookup failed", "key", item.Key(), "error", err)
		}
		return out
	}
}

func (a *App) handleDetailLoadedMsg(msg common.DetailLoadedMsg) (tea.Model, tea.Cmd) {
	a.detail.Loaded(msg)
	if msg.Err != nil {
		a.logger.Error("failed to load details", "key", msg.Item.Key(), "error", msg.Err)
	}
	return a, nil
}

// recordHistory notes a detail view. It is best effort: the store logs
// failures and nothing is shown.
func (a *App) recordHistory(item content.ContentItem) tea.Cmd {
	if a.history == nil || !a.signedIn() {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		_ = a.history.Record(ctx, item)
		return nil
	}
}

func (a *App) recordSearch(query string) tea.Cmd {
	if a.recent == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		if err := a.recent.Record(ctx, query); err != nil {
			a.logger.Warn("failed to save recent search", "error", err)
		}
		return nil
	}
}

func (a *App) handleClearRecentSearchesMsg() (tea.Model, tea.Cmd) {
	if a.recent == nil {
		return a, nil
	}
	if err := a.recent.Clear(a.ctx); err != nil {
		a.logger.Error("failed to clear recent searches", "error", err)
		return a, a.setStatus("✗ Could not clear recent searches")
	}
	a.search.Refresh()
	return a, a.setStatus("Recent searches cleared")
}

func (a *App) handleToggleFavoriteMsg(msg common.ToggleFavoriteMsg) (tea.Model, tea.Cmd) {
	if !a.signedIn() {
		return a, a.setStatus("Sign in to save favorites")
	}
	ctx, item := a.ctx, msg.Item
	return a, func() tea.Msg {
		added, err := a.favorites.Toggle(ctx, item)
		return common.FavoriteToggledMsg{Item: item, Added: added, Err: err}
	}
}

func (a *App) handleFavoriteToggledMsg(msg common.FavoriteToggledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, userdata.ErrNotAuthenticated) {
			return a, a.setStatus("Sign in to save favorites")
		}
		return a, a.setStatus("✗ Could not update favorites")
	}

	if a.state == detailView && a.detail.Item().Key() == msg.Item.Key() {
		a.detail.SetFavorite(msg.Added)
	}

	var cmd tea.Cmd
	if a.state == browseView && a.section == sectionFavorites {
		cmd = a.startLoad(content.Favorites())
	}

	text := "♥ Added " + msg.Item.Title + " to favorites"
	if !msg.Added {
		text = "Removed " + msg.Item.Title + " from favorites"
	}
	return a, tea.Batch(cmd, a.setStatus(text))
}

func (a *App) handleOpenRatingMsg(msg common.OpenRatingMsg) (tea.Model, tea.Cmd) {
	if !a.signedIn() {
		return a, a.setStatus("Sign in to rate titles")
	}
	a.ratingModal.Open(msg.Item, a.existingRating(msg.Item))
	return a, nil
}

// existingRating finds the user's rating for item in whatever is loaded
func (a *App) existingRating(item content.ContentItem) *userdata.RatingLookup {
	if a.detail.Item().Key() == item.Key() {
		if r := a.detail.Rating(); r != nil && r.HasRating {
			return r
		}
	}
	for _, r := range a.ratings.List() {
		if r.Key() == item.Key() {
			return &userdata.RatingLookup{
				HasRating: true,
				Rating:    r.Rating,
				Review:    r.Review,
				RatedAt:   r.RatedAt,
				RatingID:  r.ID,
			}
		}
	}
	return nil
}

func (a *App) handleSubmitRatingMsg(msg common.SubmitRatingMsg) (tea.Model, tea.Cmd) {
	ctx := a.ctx
	return a, func() tea.Msg {
		var (
			saved *userdata.Rating
			err   error
		)
		if msg.ID != 0 {
			saved, err = a.ratings.Update(ctx, msg.ID, userdata.RatingUpdate{Rating: msg.Rating, Review: msg.Review})
		} else {
			saved, err = a.ratings.Submit(ctx, userdata.RatingInput{Item: msg.Item, Rating: msg.Rating, Review: msg.Review})
		}
		return common.RatingSavedMsg{Item: msg.Item, Rating: saved, Err: err}
	}
}

func (a *App) handleRatingSavedMsg(msg common.RatingSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil && msg.Rating == nil {
		a.logger.Error("failed to save rating", "key", msg.Item.Key(), "error", msg.Err)
		return a, a.setStatus("✗ Could not save rating: " + msg.Err.Error())
	}
	if msg.Err != nil {
		// saved, but the list reload failed
		a.logger.Warn("rating saved but reload failed", "error", msg.Err)
	}

	cmds := []tea.Cmd{a.setStatus("★ Rating saved")}
	if a.state == detailView && a.detail.Item().Key() == msg.Item.Key() {
		cmds = append(cmds, a.lookupRating(msg.Item))
	}
	if a.state == ratingsView {
		cmds = append(cmds, a.loadRatings(a.ratingsView.Query()))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) lookupRating(item content.ContentItem) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		lookup, err := a.ratings.Lookup(ctx, item.Kind, item.ID)
		if err != nil {
			a.logger.Warn("rating lookup failed", "key", item.Key(), "error", err)
		}
		return ratingLookupMsg{item: item, lookup: lookup}
	}
}

func (a *App) handleRatingLookupMsg(msg ratingLookupMsg) (tea.Model, tea.Cmd) {
	if msg.lookup != nil && a.detail.Item().Key() == msg.item.Key() {
		a.detail.SetRating(msg.lookup)
	}
	return a, nil
}

func (a *App) handleDeleteRating(id int) (tea.Model, tea.Cmd) {
	if !a.signedIn() {
		return a, a.setStatus("Sign in to manage ratings")
	}
	ctx := a.ctx
	return a, func() tea.Msg {
		return common.RatingDeletedMsg{ID: id, Err: a.ratings.Delete(ctx, id)}
	}
}

// handleRatingDeletedMsg updates the views. A failed delete was already
// alerted by the store.
func (a *App) handleRatingDeletedMsg(msg common.RatingDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Error("failed to delete rating", "id", msg.ID, "error", msg.Err)
		return a, nil
	}

	var cmd tea.Cmd
	if r := a.detail.Rating(); r != nil && r.RatingID == msg.ID {
		a.detail.SetRating(&userdata.RatingLookup{})
	}
	if a.state == ratingsView {
		cmd = a.loadRatings(a.ratingsView.Query())
	}
	return a, tea.Batch(cmd, a.setStatus("Rating deleted"))
}

// loadRatings fetches the overview list and the stats together
func (a *App) loadRatings(q userdata.RatingQuery) tea.Cmd {
	if !a.signedIn() {
		return func() tea.Msg {
			return common.RatingsLoadedMsg{Err: userdata.ErrNotAuthenticated}
		}
	}
	ctx := a.ctx
	return func() tea.Msg {
		if err := a.ratings.Refresh(ctx, q); err != nil {
			return common.RatingsLoadedMsg{Err: err}
		}
		stats, err := a.ratings.Stats(ctx)
		if err != nil {
			a.logger.Warn("rating stats unavailable", "error", err)
		}
		return common.RatingsLoadedMsg{Ratings: a.ratings.List(), Stats: stats}
	}
}

func (a *App) handleRatingQueryMsg(msg common.RatingQueryMsg) (tea.Model, tea.Cmd) {
	a.ratingsView.SetQuery(msg.Query)
	a.ratingsView.SetLoading()
	return a, a.loadRatings(msg.Query)
}

// historyIDAt maps grid card i to its history entry id
func (a *App) historyIDAt(i int) (int, bool) {
	items := a.grid.Items()
	if i < 0 || i >= len(items) {
		return 0, false
	}
	entries := a.history.List()
	if i < len(entries) && entries[i].Key() == items[i].Key() {
		return entries[i].ID, true
	}
	for _, e := range entries {
		if e.Key() == items[i].Key() {
			return e.ID, true
		}
	}
	return 0, false
}

// handleRemoveHistoryMsg drops the card right away; the store does the same
// with its list before the backend answers
func (a *App) handleRemoveHistoryMsg(msg common.RemoveHistoryMsg) (tea.Model, tea.Cmd) {
	if !a.signedIn() {
		return a, a.setStatus("Sign in to manage your history")
	}
	if a.state == browseView && a.section == sectionHistory {
		for i := range a.grid.Items() {
			if id, ok := a.historyIDAt(i); ok && id == msg.ID {
				a.grid.Remove(i)
				break
			}
		}
	}

	ctx := a.ctx
	return a, func() tea.Msg {
		return common.HistoryRemovedMsg{ID: msg.ID, Err: a.history.DeleteOne(ctx, msg.ID)}
	}
}

func (a *App) handleHistoryRemovedMsg(msg common.HistoryRemovedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Error("failed to remove history entry", "id", msg.ID, "error", msg.Err)
		if a.state == browseView && a.section == sectionHistory {
			return a, a.startLoad(content.History())
		}
		return a, nil
	}
	return a, a.setStatus("Removed from history")
}

func (a *App) askClearHistory() {
	a.confirm.Ask("Clear history", "Remove everything from your watch history?", "Clear all",
		common.ClearHistoryMsg{})
}

func (a *App) handleClearHistoryMsg() (tea.Model, tea.Cmd) {
	if !a.signedIn() {
		return a, a.setStatus("Sign in to manage your history")
	}
	if a.state == browseView && a.section == sectionHistory {
		a.grid.SetItems(nil)
	}
	ctx := a.ctx
	return a, func() tea.Msg {
		return common.HistoryClearedMsg{Err: a.history.ClearAll(ctx)}
	}
}

func (a *App) handleHistoryClearedMsg(msg common.HistoryClearedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Error("failed to clear history", "error", msg.Err)
		if a.state == browseView && a.section == sectionHistory {
			return a, a.startLoad(content.History())
		}
		return a, nil
	}
	return a, a.setStatus("History cleared")
}

// showProfile loads user's public profile, or the signed-in user's own page
// with followers and feed when user is empty
func (a *App) showProfile(user string) tea.Cmd {
	own := user == ""
	if own {
		if !a.signedIn() || a.session.User() == nil {
			a.profileView.SetData(common.ProfileLoadedMsg{Own: true})
			return nil
		}
		user = a.session.User().Username
	}
	a.profileView.SetLoading(user)

	ctx, signedIn := a.ctx, a.signedIn()
	return func() tea.Msg {
		out := common.ProfileLoadedMsg{Username: user, Own: own}
		if out.Profile, out.Err = a.social.Profile(ctx, user); out.Err != nil {
			return out
		}
		if out.Ratings, out.Err = a.social.UserRatings(ctx, user, profileListLimit); out.Err != nil {
			return out
		}

		if !own {
			if signedIn {
				following, err := a.social.IsFollowing(ctx, user)
				if err != nil {
					a.logger.Warn("follow check failed", "username", user, "error", err)
				}
				out.Following = following
			}
			return out
		}

		var err error
		if out.Followers, err = a.social.Followers(ctx); err != nil {
			a.logger.Warn("failed to load followers", "error", err)
		}
		if out.Followees, err = a.social.Following(ctx); err != nil {
			a.logger.Warn("failed to load following", "error", err)
		}
		if out.Feed, err = a.social.Feed(ctx, profileListLimit); err != nil {
			a.logger.Warn("failed to load feed", "error", err)
		}
		return out
	}
}

func (a *App) handleFollowMsg(msg common.FollowMsg) (tea.Model, tea.Cmd) {
	if !a.signedIn() {
		return a, a.setStatus("Sign in to follow users")
	}
	ctx := a.ctx
	return a, func() tea.Msg {
		var (
			following bool
			err       error
		)
		if msg.Follow {
			following, err = a.social.Follow(ctx, msg.Username)
		} else {
			following, err = a.social.Unfollow(ctx, msg.Username)
		}
		return common.FollowedMsg{Username: msg.Username, Following: following, Err: err}
	}
}

func (a *App) handleFollowedMsg(msg common.FollowedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Error("follow change failed", "username", msg.Username, "error", msg.Err)
		return a, a.setStatus("✗ Could not update follow for " + msg.Username)
	}
	a.profileView.SetFollowing(msg.Username, msg.Following)
	if msg.Following {
		return a, a.setStatus("Following " + msg.Username)
	}
	return a, a.setStatus("Unfollowed " + msg.Username)
}

// toggleLogin opens the sign-in form, or signs out when signed in
func (a *App) toggleLogin() tea.Cmd {
	if a.session == nil {
		return nil
	}
	if a.signedIn() {
		ctx := a.ctx
		return func() tea.Msg {
			if err := a.session.Logout(ctx); err != nil {
				a.logger.Error("logout failed", "error", err)
			}
			return common.LoggedOutMsg{}
		}
	}
	a.showLogin = true
	return a.loginForm.Reset()
}

func (a *App) handleLoginMsg(msg common.LoginMsg) (tea.Model, tea.Cmd) {
	ctx := a.ctx
	return a, func() tea.Msg {
		user, err := a.session.Login(ctx, msg.Email, msg.Password)
		return common.LoginResultMsg{User: user, Err: err}
	}
}

func (a *App) handleSignupMsg(msg common.SignupMsg) (tea.Model, tea.Cmd) {
	ctx := a.ctx
	return a, func() tea.Msg {
		user, err := a.session.Signup(ctx, msg.Email, msg.Username, msg.Password)
		return common.LoginResultMsg{User: user, Signup: true, Err: err}
	}
}

func (a *App) handleLoginResultMsg(msg common.LoginResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil && msg.Signup {
		a.logger.Warn("sign up failed", "error", msg.Err)
		text := "Sign up failed. Please try again."
		var se *httpclient.StatusError
		if errors.As(msg.Err, &se) && se.Detail != "" {
			text = "Sign up failed: " + se.Detail
		}
		a.loginForm.Failed(text)
		return a, nil
	}
	if msg.Err != nil {
		a.logger.Warn("sign in failed", "error", msg.Err)
		a.loginForm.Failed("Sign in failed. Check your email and password.")
		return a, nil
	}
	a.showLogin = false
	a.syncUser()
	status := "Signed in as " + msg.User.Username
	if msg.Signup {
		status = "Welcome, " + msg.User.Username
	}
	return a, tea.Batch(a.setStatus(status), a.reloadForUser())
}

func (a *App) handleLoggedOutMsg() (tea.Model, tea.Cmd) {
	a.syncUser()
	return a, tea.Batch(a.setStatus("Signed out"), a.reloadForUser())
}

// reloadForUser refreshes views whose content depends on who is signed in
func (a *App) reloadForUser() tea.Cmd {
	switch a.state {
	case detailView:
		return a.loadDetail(a.detail.Item())
	case ratingsView:
		a.ratingsView.SetLoading()
		return a.loadRatings(a.ratingsView.Query())
	case profileView:
		return a.showProfile(a.current().user)
	default:
		if !a.section.catalog() {
			return a.startLoad(a.loader.Current())
		}
		return nil
	}
}
