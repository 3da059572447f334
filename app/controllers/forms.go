package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogicum/app/models"
	"blogicum/app/services"

	"github.com/pkg/errors"
)

// maxUploadSize bounds a multipart post form including its image.
const maxUploadSize = 10 << 20

var pubDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadSize)
	}
	return r.ParseForm()
}

func parsePubDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, true
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseChoice(value string) (*int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	id, err := strconv.Atoi(value)
	if err != nil || id < 1 {
		return nil, false
	}
	return &id, true
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// postFormFromRequest reads a post form. Fields that cannot be parsed are
// reported in the returned errors and left at their zero value.
func postFormFromRequest(r *http.Request) (*models.PostForm, models.ValidationErrors) {
	verrs := models.ValidationErrors{}
	form := &models.PostForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Text:        r.FormValue("text"),
		IsPublished: parseBool(r.FormValue("is_published")),
	}

	if pubDate, ok := parsePubDate(r.FormValue("pub_date")); ok {
		form.PubDate = pubDate
	} else {
		verrs.Add("pub_date", "Enter a valid date/time.")
	}
	if id, ok := parseChoice(r.FormValue("category")); ok {
		form.CategoryID = id
	} else {
		verrs.Add("category", "Select a valid choice.")
	}
	if id, ok := parseChoice(r.FormValue("location")); ok {
		form.LocationID = id
	} else {
		verrs.Add("location", "Select a valid choice.")
	}
	return form, verrs
}

// saveUpload stores the image field of a multipart request. It returns an
// empty path when no file was sent.
func saveUpload(r *http.Request, media *services.MediaStore) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	return media.SavePostImage(header.Filename, file)
}
