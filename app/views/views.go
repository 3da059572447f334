// Package views renders the HTML pages of the blog from templates embedded in
// the binary.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"path"
	"strings"
	"time"

	"blogicum/app/models"
	"blogicum/app/repositories"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/base.layout.html"

// Pages rendered by the controllers.
const (
	PageIndex         = "index"
	PageDetail        = "detail"
	PagePostForm      = "post_form"
	PagePostDelete    = "post_delete"
	PageCommentForm   = "comment_form"
	PageCommentDelete = "comment_delete"
	PageCategory      = "category"
	PageProfile       = "profile"
	PageProfileEdit   = "profile_edit"
	PageLogin         = "login"
	PageRegistration  = "registration"
	PageError         = "error"
)

var pageNames = []string{
	PageIndex, PageDetail, PagePostForm, PagePostDelete, PageCommentForm,
	PageCommentDelete, PageCategory, PageProfile, PageProfileEdit, PageLogin,
	PageRegistration, PageError,
}

// Data is the value every page template is executed with.
type Data struct {
	Title  string
	Path   string
	Viewer *models.User

	Page     *repositories.Page
	Post     *models.Post
	Comment  *models.Comment
	Category *models.Category
	Profile  *models.User

	PostForm    *models.PostForm
	CommentForm *models.CommentForm
	ProfileForm *models.ProfileForm
	Username    string
	Email       string
	Next        string
	Errors      models.ValidationErrors
	FormError   string

	Categories []*models.Category
	Locations  []*models.Location

	Status  int
	Message string
}

// IsOwner reports whether the viewer wrote the shown post.
func (d *Data) IsOwner() bool {
	return d.Viewer != nil && d.Post != nil && d.Viewer.ID == d.Post.AuthorID
}

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	"datetimeLocal": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02T15:04")
	},
	"truncateWords": func(n int, s string) string {
		words := strings.Fields(s)
		if len(words) <= n {
			return s
		}
		return strings.Join(words[:n], " ") + " …"
	},
	"isSelected": func(selected *int, id int) bool {
		return selected != nil && *selected == id
	},
	"mediaURL": func(rel string) string {
		return "/media/" + rel
	},
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the layout, the partials and every page.
func New() (*Renderer, error) {
	partials, err := files.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	var partialFiles []string
	for _, entry := range partials {
		if strings.HasSuffix(entry.Name(), ".partial.html") {
			partialFiles = append(partialFiles, path.Join("templates", entry.Name()))
		}
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		patterns := append([]string{layoutFile, "templates/" + name + ".html"}, partialFiles...)
		ts, err := template.New(name).Funcs(functions).ParseFS(files, patterns...)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse page %q", name)
		}
		r.pages[name] = ts
	}
	return r, nil
}

// MustNew is New for package initialisation; it panics on a broken template.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes page into w. Nothing is written when execution fails.
func (r *Renderer) Render(w io.Writer, page string, data *Data) error {
	ts, ok := r.pages[page]
	if !ok {
		return errors.Errorf("unknown page %q", page)
	}
	if data == nil {
		data = &Data{}
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		return errors.Wrapf(err, "failed to render page %q", page)
	}
	_, err := buf.WriteTo(w)
	return err
}
