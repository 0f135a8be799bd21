package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.PubDate.IsZero() {
		return errors.New("pub_date cannot be zero")
	}

	return nil
}

// BeforeCreate stamps the publication date. It is the only place PubDate is set.
func (p *Post) BeforeCreate(now time.Time) {
	p.PubDate = now
}

// HasGroup reports whether the post is filed under a group.
func (p *Post) HasGroup() bool {
	return p.GroupID != nil
}

// InGroup reports whether the post is filed under the group with the given id.
func (p *Post) InGroup(groupID int) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}

// Apply copies the editable fields onto the post. Author and PubDate are left alone.
func (p *Post) Apply(update PostUpdate) {
	p.Text = update.Text
	if update.GroupID == nil {
		p.GroupID = nil
		return
	}
	id := *update.GroupID
	p.GroupID = &id
}

// Excerpt returns the first 15 characters of the text.
func (p *Post) Excerpt() string {
	r := []rune(p.Text)
	if len(r) > 15 {
		return string(r[:15])
	}
	return p.Text
}

func (p *Post) String() string {
	return p.Excerpt()
}
