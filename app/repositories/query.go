package repositories

import (
	"sort"

	"blogicum/app/models"
)

// PostQuery describes a post listing. Zero AuthorID or CategoryID means no
// restriction. Filter runs after relations are loaded, so it can inspect the
// post's category.
type PostQuery struct {
	AuthorID   int
	CategoryID int
	Filter     func(post *models.Post) bool
	Page       int
	PageSize   int
}

func (q PostQuery) matches(post *models.Post) bool {
	if q.AuthorID != 0 && post.AuthorID != q.AuthorID {
		return false
	}
	if q.CategoryID != 0 && (post.CategoryID == nil || *post.CategoryID != q.CategoryID) {
		return false
	}
	return true
}

func (q PostQuery) accepts(post *models.Post) bool {
	return q.Filter == nil || q.Filter(post)
}

// Page is one page of a post listing.
type Page struct {
	Items    []*models.Post `json:"items"`
	Number   int            `json:"page"`
	Size     int            `json:"page_size"`
	Total    int            `json:"total"`
	NumPages int            `json:"num_pages"`
	HasPrev  bool           `json:"has_prev"`
	HasNext  bool           `json:"has_next"`
}

func (p *Page) PrevNumber() int { return p.Number - 1 }
func (p *Page) NextNumber() int { return p.Number + 1 }

// SortPosts orders posts newest first by publication date, breaking ties by
// descending id so pagination stays stable.
func SortPosts(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].PubDate.After(posts[j].PubDate)
		}
		return posts[i].ID > posts[j].ID
	})
}

// Paginate cuts the requested page out of sorted posts. Page numbers outside
// the available range are clamped to the first or last page; an empty
// listing has a single empty page.
func Paginate(posts []*models.Post, number, size int) (*Page, error) {
	if size < 1 {
		return nil, ErrInvalidPageSize
	}

	total := len(posts)
	numPages := (total + size - 1) / size
	if numPages == 0 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	items := make([]*models.Post, 0, end-start)
	items = append(items, posts[start:end]...)

	return &Page{
		Items:    items,
		Number:   number,
		Size:     size,
		Total:    total,
		NumPages: numPages,
		HasPrev:  number > 1,
		HasNext:  number < numPages,
	}, nil
}
