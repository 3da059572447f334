package visibility

import "blogicum/app/models"

// MutationResult is the outcome of an ownership check. A rejected mutation
// is not an error: the caller sends the viewer to the detail page of
// RedirectPostID and performs no write.
type MutationResult struct {
	Allowed        bool
	RedirectPostID int
}

// Allowed permits the mutation.
func Allowed() MutationResult {
	return MutationResult{Allowed: true}
}

// RedirectTo rejects the mutation in favour of the post detail page.
func RedirectTo(postID int) MutationResult {
	return MutationResult{RedirectPostID: postID}
}

// AuthorizeMutation checks that viewer owns entity.
func AuthorizeMutation(entity Owned, viewer *models.User) MutationResult {
	if CanMutate(entity, viewer) {
		return Allowed()
	}
	return RedirectTo(entity.DetailPostID())
}
