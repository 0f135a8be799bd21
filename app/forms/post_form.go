package forms

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"yatube/app/models"
	"yatube/app/repositories"
)

// GroupFinder resolves a group id. repositories.GroupRepository satisfies it.
type GroupFinder interface {
	GetByID(id int) (*models.Group, error)
}

// PostForm holds the text and group fields of the create and edit pages.
type PostForm struct {
	Text   string `form:"text" validate:"required"`
	Group  string `form:"group" validate:"omitempty,numeric"`
	Errors Errors `form:"-" validate:"-"`

	groupID *int
}

// NewPostForm binds submitted values. Fields other than text and group,
// such as an author, are ignored.
func NewPostForm(values url.Values) *PostForm {
	return &PostForm{
		Text:   strings.TrimSpace(values.Get("text")),
		Group:  strings.TrimSpace(values.Get("group")),
		Errors: Errors{},
	}
}

// PostFormFor prefills the form with an existing post.
func PostFormFor(post *models.Post) *PostForm {
	form := &PostForm{Text: post.Text, Errors: Errors{}}
	if post.GroupID != nil {
		form.Group = strconv.Itoa(*post.GroupID)
		id := *post.GroupID
		form.groupID = &id
	}
	return form
}

// Validate checks the fields and that the chosen group exists. It returns
// ErrInvalid when the user must correct the form, or a lookup error.
func (f *PostForm) Validate(groups GroupFinder) error {
	if f.Errors == nil {
		f.Errors = Errors{}
	}
	f.groupID = nil

	if err := collect(validate.Struct(f), f.Errors); err != nil {
		return err
	}

	if f.Group != "" && !f.Errors.Has("group") {
		id, err := strconv.Atoi(f.Group)
		if err != nil {
			f.Errors["group"] = invalidChoice
		} else if _, err := groups.GetByID(id); errors.Is(err, repositories.ErrNotFound) {
			f.Errors["group"] = invalidChoice
		} else if err != nil {
			return err
		} else {
			f.groupID = &id
		}
	}

	if len(f.Errors) > 0 {
		f.groupID = nil
		return ErrInvalid
	}
	return nil
}

// RejectGroup marks the chosen group as invalid after validation, for a
// group that disappeared before the post was saved.
func (f *PostForm) RejectGroup() {
	if f.Errors == nil {
		f.Errors = Errors{}
	}
	f.Errors["group"] = invalidChoice
	f.groupID = nil
}

// GroupID returns the validated group id, nil when no group was chosen.
func (f *PostForm) GroupID() *int {
	return f.groupID
}

// Selected reports whether the group option with id should be preselected.
func (f *PostForm) Selected(id int) bool {
	return f.Group == strconv.Itoa(id)
}

// Update returns the cleaned fields as a post update.
func (f *PostForm) Update() models.PostUpdate {
	return models.PostUpdate{Text: f.Text, GroupID: f.GroupID()}
}
