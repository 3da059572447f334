// Package visibility decides which posts a viewer may see and which posts
// and comments a viewer may change. A nil viewer is an anonymous visitor.
package visibility

import (
	"time"

	"blogicum/app/models"
)

// Owned is implemented by every entity that belongs to a single author.
type Owned interface {
	OwnerID() int
	// DetailPostID is the post whose detail page is the canonical view of
	// the entity.
	DetailPostID() int
}

// PostFilter selects posts for a listing.
type PostFilter func(post *models.Post) bool

// IsPubliclyVisible reports whether post may appear in public listings:
// published, not scheduled for later than now, and either uncategorized or
// in a published category. The post's Category must already be loaded; a
// dangling CategoryID counts as unpublished.
func IsPubliclyVisible(post *models.Post, now time.Time) bool {
	if post == nil || !post.IsPublished || post.PubDate.After(now) {
		return false
	}
	if post.CategoryID == nil {
		return true
	}
	return post.Category != nil && post.Category.IsPublished
}

// Public returns the listing filter used by the home page, category pages
// and other users' profiles.
func Public(now time.Time) PostFilter {
	return func(post *models.Post) bool {
		return IsPubliclyVisible(post, now)
	}
}

// CanView reports whether viewer may open the detail page of post. Authors
// always see their own posts, even unpublished or scheduled ones.
func CanView(post *models.Post, viewer *models.User, now time.Time) bool {
	if IsPubliclyVisible(post, now) {
		return true
	}
	return post != nil && isOwner(post, viewer)
}

// ProfileFilter returns the filter for the profile page of owner: the owner sees
// all of their posts, everyone else only the public ones.
func ProfileFilter(owner, viewer *models.User, now time.Time) PostFilter {
	if owner != nil && viewer != nil && owner.ID == viewer.ID {
		return func(post *models.Post) bool {
			return post.AuthorID == owner.ID
		}
	}
	public := Public(now)
	return func(post *models.Post) bool {
		return owner != nil && post.AuthorID == owner.ID && public(post)
	}
}

// CanMutate reports whether viewer may edit or delete entity.
func CanMutate(entity Owned, viewer *models.User) bool {
	return isOwner(entity, viewer)
}

func isOwner(entity Owned, viewer *models.User) bool {
	return viewer != nil && viewer.ID != 0 && viewer.ID == entity.OwnerID()
}
