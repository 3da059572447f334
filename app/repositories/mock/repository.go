// Package mock provides in-memory repositories for service and controller
// tests. All repositories of one Store share the same data, so post listings
// see categories, authors and comments created through the other
// repositories.
package mock

import (
	"sort"
	"sync"

	"blogicum/app/models"
	"blogicum/app/repositories"
)

type Store struct {
	mutex      sync.RWMutex
	posts      map[int]*models.Post
	comments   map[int]*models.Comment
	users      map[int]*models.User
	categories map[int]*models.Category
	locations  map[int]*models.Location
	nextID     map[string]int

	// Writes counts successful mutations, letting tests assert that a
	// rejected request left the store untouched.
	Writes int
}

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.posts = make(map[int]*models.Post)
	s.comments = make(map[int]*models.Comment)
	s.users = make(map[int]*models.User)
	s.categories = make(map[int]*models.Category)
	s.locations = make(map[int]*models.Location)
	s.nextID = make(map[string]int)
	s.Writes = 0
}

func (s *Store) next(kind string) int {
	s.nextID[kind]++
	return s.nextID[kind]
}

func (s *Store) Posts() *PostRepository { return &PostRepository{s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s} }
func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s} }
func (s *Store) Locations() *LocationRepository { return &LocationRepository{s} }

// hydrate returns a copy of post with its relations; callers hold the lock.
func (s *Store) hydrate(post *models.Post) *models.Post {
	p := *post.Record()
	if u, ok := s.users[p.AuthorID]; ok {
		copied := *u
		p.Author = &copied
	}
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			copied := *c
			p.Category = &copied
		}
	}
	if p.LocationID != nil {
		if l, ok := s.locations[*p.LocationID]; ok {
			copied := *l
			p.Location = &copied
		}
	}
	for _, c := range s.comments {
		if c.PostID == p.ID {
			p.CommentCount++
		}
	}
	return &p
}

// PostRepository implementation
type PostRepository struct{ s *Store }

func (m *PostRepository) Create(post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	post.ID = m.s.next("post")
	post.BeforeCreate()
	m.s.posts[post.ID] = post.Record()
	m.s.Writes++
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.s.hydrate(post), nil
}

func (m *PostRepository) Find(query repositories.PostQuery) (*repositories.Page, error) {
	m.s.mutex.RLock()
	var posts []*models.Post
	for _, stored := range m.s.posts {
		post := m.s.hydrate(stored)
		if query.AuthorID != 0 && post.AuthorID != query.AuthorID {
			continue
		}
		if query.CategoryID != 0 && (post.CategoryID == nil || *post.CategoryID != query.CategoryID) {
			continue
		}
		if query.Filter != nil && !query.Filter(post) {
			continue
		}
		posts = append(posts, post)
	}
	m.s.mutex.RUnlock()

	repositories.SortPosts(posts)
	return repositories.Paginate(posts, query.Page, query.PageSize)
}

func (m *PostRepository) Update(post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.s.posts[post.ID] = post.Record()
	m.s.Writes++
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	for commentID, c := range m.s.comments {
		if c.PostID == id {
			delete(m.s.comments, commentID)
		}
	}
	delete(m.s.posts, id)
	m.s.Writes++
	return nil
}

// CommentRepository implementation
type CommentRepository struct{ s *Store }

func (m *CommentRepository) Create(comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[comment.PostID]; !exists {
		return repositories.ErrNotFound
	}
	comment.ID = m.s.next("comment")
	comment.BeforeCreate()
	m.s.comments[comment.ID] = comment.Record()
	m.s.Writes++
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	comment, exists := m.s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *comment
	if u, ok := m.s.users[c.AuthorID]; ok {
		copied := *u
		c.Author = &copied
	}
	return &c, nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	var comments []*models.Comment
	for _, comment := range m.s.comments {
		if comment.PostID == postID {
			c := *comment
			if u, ok := m.s.users[c.AuthorID]; ok {
				copied := *u
				c.Author = &copied
			}
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	existing, exists := m.s.comments[comment.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	existing.Text = comment.Text
	m.s.Writes++
	return nil
}

func (m *CommentRepository) Delete(id int) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.s.comments, id)
	m.s.Writes++
	return nil
}

// UserRepository implementation
type UserRepository struct{ s *Store }

func (m *UserRepository) Create(user *models.User) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	for _, u := range m.s.users {
		if u.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	user.ID = m.s.next("user")
	user.BeforeCreate()
	stored := *user
	m.s.users[user.ID] = &stored
	m.s.Writes++
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	u, exists := m.s.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	for _, u := range m.s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) Update(user *models.User) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	existing, exists := m.s.users[user.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	for _, u := range m.s.users {
		if u.ID != user.ID && u.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	stored := *user
	if stored.PasswordHash == "" {
		stored.PasswordHash = existing.PasswordHash
	}
	m.s.users[user.ID] = &stored
	m.s.Writes++
	return nil
}

// CategoryRepository implementation
type CategoryRepository struct{ s *Store }

func (m *CategoryRepository) Create(category *models.Category) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	for _, c := range m.s.categories {
		if c.Slug == category.Slug {
			return repositories.ErrConflict
		}
	}
	category.ID = m.s.next("category")
	category.BeforeCreate()
	stored := *category
	m.s.categories[category.ID] = &stored
	m.s.Writes++
	return nil
}

func (m *CategoryRepository) GetByID(id int) (*models.Category, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	c, exists := m.s.categories[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *CategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	for _, c := range m.s.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *CategoryRepository) List() ([]*models.Category, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	var categories []*models.Category
	for _, c := range m.s.categories {
		copied := *c
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Title < categories[j].Title })
	return categories, nil
}

func (m *CategoryRepository) Update(category *models.Category) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.categories[category.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *category
	m.s.categories[category.ID] = &stored
	m.s.Writes++
	return nil
}

// LocationRepository implementation
type LocationRepository struct{ s *Store }

func (m *LocationRepository) Create(location *models.Location) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	location.ID = m.s.next("location")
	location.BeforeCreate()
	stored := *location
	m.s.locations[location.ID] = &stored
	m.s.Writes++
	return nil
}

func (m *LocationRepository) GetByID(id int) (*models.Location, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	l, exists := m.s.locations[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (m *LocationRepository) List() ([]*models.Location, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	var locations []*models.Location
	for _, l := range m.s.locations {
		copied := *l
		locations = append(locations, &copied)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	return locations, nil
}

func (m *LocationRepository) Update(location *models.Location) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.locations[location.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *location
	m.s.locations[location.ID] = &stored
	m.s.Writes++
	return nil
}
