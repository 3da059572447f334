package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"blogicum/app/log"
	"blogicum/app/middleware"
	"blogicum/app/models"
	"blogicum/app/repositories"
	"blogicum/app/repositories/mock"
	"blogicum/app/services"
	"blogicum/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Logger().SetOutput(io.Discard)
	os.Exit(m.Run())
}

type testEnv struct {
	store    *mock.Store
	router   *mux.Router
	author   *models.User
	reader   *models.User
	category *models.Category
}

// asUser runs h with user as the signed in viewer.
func asUser(user *models.User, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user != nil {
			r = r.WithContext(middleware.WithUser(r.Context(), user))
		}
		h(w, r)
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	store := mock.NewStore()
	repos := services.Repositories{
		Posts:      store.Posts(),
		Comments:   store.Comments(),
		Users:      store.Users(),
		Categories: store.Categories(),
		Locations:  store.Locations(),
	}
	env := &testEnv{
		store:    store,
		author:   &models.User{Username: "author"},
		reader:   &models.User{Username: "reader"},
		category: &models.Category{Title: "Travel", Slug: "travel", IsPublished: true},
	}
	require.NoError(t, store.Users().Create(env.author))
	require.NoError(t, store.Users().Create(env.reader))
	require.NoError(t, store.Categories().Create(env.category))

	renderer := views.MustNew()
	postService := services.NewPostService(repos, 2)
	commentService := services.NewCommentService(repos)
	postController := NewPostController(renderer, postService, services.NewMediaStore(t.TempDir()))
	commentController := NewCommentController(renderer, commentService, postService)
	categoryController := NewCategoryController(renderer, postService)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(postController.NotFound)
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/as/{user}/posts/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), postController.Show)(w, r)
	}).Methods("GET")
	router.HandleFunc("/as/{user}/posts/create", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), postController.Create)(w, r)
	}).Methods("POST")
	router.HandleFunc("/as/{user}/posts/{id:[0-9]+}/edit", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), postController.Edit)(w, r)
	}).Methods("GET")
	router.HandleFunc("/as/{user}/posts/{id:[0-9]+}/edit", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), postController.Update)(w, r)
	}).Methods("POST")
	router.HandleFunc("/as/{user}/posts/{id:[0-9]+}/delete", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), postController.Delete)(w, r)
	}).Methods("POST")
	router.HandleFunc("/as/{user}/posts/{id:[0-9]+}/comment", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), commentController.Create)(w, r)
	}).Methods("POST")
	router.HandleFunc("/as/{user}/posts/{id:[0-9]+}/edit_comment/{comment_id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), commentController.Update)(w, r)
	}).Methods("POST")
	router.HandleFunc("/as/{user}/posts/{id:[0-9]+}/delete_comment/{comment_id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		asUser(env.user(mux.Vars(r)["user"]), commentController.Delete)(w, r)
	}).Methods("POST")
	router.HandleFunc("/category/{slug}", categoryController.Show).Methods("GET")
	env.router = router
	return env
}

func (env *testEnv) user(username string) *models.User {
	switch username {
	case env.author.Username:
		return env.author
	case env.reader.Username:
		return env.reader
	}
	return nil
}

func (env *testEnv) addPost(t *testing.T, post *models.Post) *models.Post {
	if post.AuthorID == 0 {
		post.AuthorID = env.author.ID
	}
	if post.Title == "" {
		post.Title = "Title"
	}
	if post.Text == "" {
		post.Text = "Text"
	}
	if post.PubDate.IsZero() {
		post.PubDate = time.Now().Add(-time.Hour)
	}
	require.NoError(t, env.store.Posts().Create(post))
	return post
}

func (env *testEnv) do(method, target string, form url.Values, accept string) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func postPath(user string, id int, suffix string) string {
	return "/as/" + user + "/posts/" + strconv.Itoa(id) + suffix
}

func TestPostControllerIndex(t *testing.T) {
	env := setupTestEnv(t)
	for i := 0; i < 3; i++ {
		env.addPost(t, &models.Post{IsPublished: true, PubDate: time.Now().Add(-time.Duration(i+1) * time.Hour)})
	}
	env.addPost(t, &models.Post{IsPublished: false})

	t.Run("html", func(t *testing.T) {
		w := env.do(http.MethodGet, "/", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Page 1 of 2")
	})

	t.Run("json", func(t *testing.T) {
		w := env.do(http.MethodGet, "/?page=2", nil, "application/json")
		require.Equal(t, http.StatusOK, w.Code)

		var page repositories.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 2, page.Number)
		assert.Equal(t, 3, page.Total)
		assert.Len(t, page.Items, 1)
	})

	t.Run("out of range page is clamped", func(t *testing.T) {
		w := env.do(http.MethodGet, "/?page=99", nil, "application/json")
		require.Equal(t, http.StatusOK, w.Code)

		var page repositories.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 2, page.Number)
	})
}

func TestPostControllerShow(t *testing.T) {
	env := setupTestEnv(t)
	public := env.addPost(t, &models.Post{Title: "Visible", IsPublished: true})
	draft := env.addPost(t, &models.Post{Title: "Draft", IsPublished: false})

	t.Run("public post", func(t *testing.T) {
		w := env.do(http.MethodGet, "/posts/"+strconv.Itoa(public.ID), nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Visible")
	})

	t.Run("draft is hidden from guests", func(t *testing.T) {
		w := env.do(http.MethodGet, "/posts/"+strconv.Itoa(draft.ID), nil, "application/json")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Page not found"}`, w.Body.String())
	})

	t.Run("draft is hidden from other users", func(t *testing.T) {
		w := env.do(http.MethodGet, postPath("reader", draft.ID, ""), nil, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("author sees own draft", func(t *testing.T) {
		w := env.do(http.MethodGet, postPath("author", draft.ID, ""), nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Draft")
	})

	t.Run("unknown post", func(t *testing.T) {
		w := env.do(http.MethodGet, "/posts/999", nil, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostControllerCreate(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("valid form", func(t *testing.T) {
		form := url.Values{
			"title":        {"Hello"},
			"text":         {"World"},
			"pub_date":     {"2024-01-02T10:00"},
			"is_published": {"on"},
			"category":     {strconv.Itoa(env.category.ID)},
		}
		w := env.do(http.MethodPost, "/as/author/posts/create", form, "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/profile/author", w.Header().Get("Location"))

		post, err := env.store.Posts().GetByID(1)
		require.NoError(t, err)
		assert.Equal(t, env.author.ID, post.AuthorID)
		assert.True(t, post.IsPublished)
		require.NotNil(t, post.CategoryID)
		assert.Equal(t, env.category.ID, *post.CategoryID)
	})

	t.Run("invalid form is re-rendered", func(t *testing.T) {
		writes := env.store.Writes
		form := url.Values{"title": {""}, "text": {"body"}, "pub_date": {"not a date"}}
		w := env.do(http.MethodPost, "/as/author/posts/create", form, "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Enter a valid date/time.")
		assert.Equal(t, writes, env.store.Writes)
	})

	t.Run("unknown category", func(t *testing.T) {
		writes := env.store.Writes
		form := url.Values{"title": {"T"}, "text": {"body"}, "category": {"42"}}
		w := env.do(http.MethodPost, "/as/author/posts/create", form, "")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Select a valid choice.")
		assert.Equal(t, writes, env.store.Writes)
	})
}

func TestPostControllerMutations(t *testing.T) {
	env := setupTestEnv(t)
	post := env.addPost(t, &models.Post{Title: "Original", IsPublished: true})

	t.Run("non-author edit form redirects", func(t *testing.T) {
		w := env.do(http.MethodGet, postPath("reader", post.ID, "/edit"), nil, "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/posts/"+strconv.Itoa(post.ID), w.Header().Get("Location"))
	})

	t.Run("non-author update does not write", func(t *testing.T) {
		writes := env.store.Writes
		form := url.Values{"title": {"Hijacked"}, "text": {"x"}}
		w := env.do(http.MethodPost, postPath("reader", post.ID, "/edit"), form, "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/posts/"+strconv.Itoa(post.ID), w.Header().Get("Location"))
		assert.Equal(t, writes, env.store.Writes)

		stored, err := env.store.Posts().GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", stored.Title)
	})

	t.Run("non-author delete does not write", func(t *testing.T) {
		writes := env.store.Writes
		w := env.do(http.MethodPost, postPath("reader", post.ID, "/delete"), url.Values{}, "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, writes, env.store.Writes)
		_, err := env.store.Posts().GetByID(post.ID)
		assert.NoError(t, err)
	})

	t.Run("author edit form", func(t *testing.T) {
		w := env.do(http.MethodGet, postPath("author", post.ID, "/edit"), nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Original")
	})

	t.Run("author update", func(t *testing.T) {
		form := url.Values{"title": {"Updated"}, "text": {"New text"}, "is_published": {"on"}}
		w := env.do(http.MethodPost, postPath("author", post.ID, "/edit"), form, "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/posts/"+strconv.Itoa(post.ID), w.Header().Get("Location"))

		stored, err := env.store.Posts().GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", stored.Title)
		assert.Equal(t, env.author.ID, stored.AuthorID)
	})

	t.Run("author delete", func(t *testing.T) {
		w := env.do(http.MethodPost, postPath("author", post.ID, "/delete"), url.Values{}, "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		_, err := env.store.Posts().GetByID(post.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestCategoryControllerShow(t *testing.T) {
	env := setupTestEnv(t)
	hidden := &models.Category{Title: "Hidden", Slug: "hidden"}
	require.NoError(t, env.store.Categories().Create(hidden))
	inCategory := env.addPost(t, &models.Post{Title: "Trip", IsPublished: true, CategoryID: &env.category.ID})
	env.addPost(t, &models.Post{Title: "Elsewhere", IsPublished: true})

	t.Run("published category", func(t *testing.T) {
		w := env.do(http.MethodGet, "/category/travel", nil, "application/json")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Category models.Category  `json:"category"`
			Posts    repositories.Page `json:"posts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "travel", body.Category.Slug)
		require.Len(t, body.Posts.Items, 1)
		assert.Equal(t, inCategory.ID, body.Posts.Items[0].ID)
	})

	t.Run("unpublished category", func(t *testing.T) {
		w := env.do(http.MethodGet, "/category/hidden", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing category", func(t *testing.T) {
		w := env.do(http.MethodGet, "/category/none", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
