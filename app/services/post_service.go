package services

import (
	"errors"
	"fmt"

	"yatube/app/authz"
	"yatube/app/forms"
	"yatube/app/models"
	"yatube/app/pagination"
	"yatube/app/repositories"
)

// PostObserver is notified after a post is stored.
type PostObserver interface {
	PostCreated(post *models.Post)
	PostUpdated(post *models.Post)
}

type nopObserver struct{}

func (nopObserver) PostCreated(*models.Post) {}
func (nopObserver) PostUpdated(*models.Post) {}

// PostService handles the feeds and the create/edit workflow for posts
type PostService struct {
	postRepo  repositories.PostRepository
	groupRepo repositories.GroupRepository
	userRepo  repositories.UserRepository
	observer  PostObserver
	perPage   int
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, groupRepo repositories.GroupRepository, userRepo repositories.UserRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		observer:  nopObserver{},
		perPage:   pagination.PerPage,
	}
}

// SetObserver registers o to be told about created and updated posts.
func (s *PostService) SetObserver(o PostObserver) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// Index returns one page of every post, newest first.
func (s *PostService) Index(rawPage string) (pagination.Page[*models.Post], error) {
	return s.page(repositories.PostFilter{}, rawPage)
}

// GroupFeed resolves a group by slug and returns one page of its posts.
func (s *PostService) GroupFeed(slug, rawPage string) (*models.Group, pagination.Page[*models.Post], error) {
	group, err := s.groupRepo.GetBySlug(slug)
	if err != nil {
		return nil, pagination.Page[*models.Post]{}, err
	}

	page, err := s.page(repositories.ByGroup(group.ID), rawPage)
	if err != nil {
		return nil, page, err
	}
	return group, page, nil
}

// ProfileFeed resolves an author by username and returns one page of their
// posts. Page.Total is the author's post count.
func (s *PostService) ProfileFeed(username, rawPage string) (*models.User, pagination.Page[*models.Post], error) {
	author, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, pagination.Page[*models.Post]{}, err
	}

	page, err := s.page(repositories.ByAuthor(author.ID), rawPage)
	if err != nil {
		return nil, page, err
	}
	return author, page, nil
}

// GetPost retrieves a post by ID with its author and group attached
func (s *PostService) GetPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.hydrate([]*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// CountByAuthor returns how many posts the user has written.
func (s *PostService) CountByAuthor(authorID int) (int, error) {
	return s.postRepo.Count(repositories.ByAuthor(authorID))
}

// Groups lists the groups a post can be filed under.
func (s *PostService) Groups() ([]*models.Group, error) {
	return s.groupRepo.List()
}

// CreatePost validates form and publishes a post written by actor.
// A failed validation returns forms.ErrInvalid with the errors on form.
func (s *PostService) CreatePost(actor *models.User, form *forms.PostForm) (*models.Post, error) {
	if !authz.CanCreate(actor) {
		return nil, ErrUnauthenticated
	}

	if err := form.Validate(s.groupRepo); err != nil {
		if errors.Is(err, forms.ErrInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("validate post form: %w", err)
	}

	// The author always comes from the session, never from the form
	post := &models.Post{
		Text:     form.Text,
		AuthorID: actor.ID,
		GroupID:  form.GroupID(),
	}
	if err := s.postRepo.Create(post); err != nil {
		if s.groupGone(form, err) {
			return nil, forms.ErrInvalid
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.observer.PostCreated(post)
	return post, nil
}

// EditablePost loads a post for the edit page. It returns ErrNotOwner when
// actor did not write it.
func (s *PostService) EditablePost(actor *models.User, id int) (*models.Post, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	if !authz.Authenticated(actor) {
		return post, ErrUnauthenticated
	}
	if !authz.CanEdit(actor, post) {
		return post, ErrNotOwner
	}
	return post, nil
}

// UpdatePost changes the text and group of a post owned by actor.
func (s *PostService) UpdatePost(actor *models.User, id int, form *forms.PostForm) (*models.Post, error) {
	if _, err := s.EditablePost(actor, id); err != nil {
		return nil, err
	}

	if err := form.Validate(s.groupRepo); err != nil {
		if errors.Is(err, forms.ErrInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("validate post form: %w", err)
	}

	post, err := s.postRepo.Update(id, form.Update())
	if err != nil {
		if s.groupGone(form, err) {
			return nil, forms.ErrInvalid
		}
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}

	s.observer.PostUpdated(post)
	return post, nil
}

// groupGone reports whether err came from the form's group being deleted
// after validation, and if so puts the error back on the form.
func (s *PostService) groupGone(form *forms.PostForm, err error) bool {
	if !errors.Is(err, repositories.ErrInvalidReference) || form.GroupID() == nil {
		return false
	}
	if _, lookupErr := s.groupRepo.GetByID(*form.GroupID()); !errors.Is(lookupErr, repositories.ErrNotFound) {
		return false
	}
	form.RejectGroup()
	return true
}

func (s *PostService) page(filter repositories.PostFilter, rawPage string) (pagination.Page[*models.Post], error) {
	posts, err := s.postRepo.List(filter)
	if err != nil {
		return pagination.Page[*models.Post]{}, fmt.Errorf("list posts: %w", err)
	}

	page := pagination.New(posts, s.perPage).GetPage(rawPage)

	// Only the posts being shown need their author and group
	if err := s.hydrate(page.Items); err != nil {
		return page, err
	}
	return page, nil
}

// hydrate attaches Author and Group to each post, loading each id once.
func (s *PostService) hydrate(posts []*models.Post) error {
	users := make(map[int]*models.User)
	groups := make(map[int]*models.Group)

	for _, post := range posts {
		author, ok := users[post.AuthorID]
		if !ok {
			var err error
			author, err = s.userRepo.GetByID(post.AuthorID)
			if err != nil {
				return fmt.Errorf("failed to get author of post %d: %w", post.ID, err)
			}
			users[post.AuthorID] = author
		}
		post.Author = author

		if post.GroupID == nil {
			continue
		}
		group, ok := groups[*post.GroupID]
		if !ok {
			var err error
			group, err = s.groupRepo.GetByID(*post.GroupID)
			if errors.Is(err, repositories.ErrNotFound) {
				// Group removed between the list and this lookup
				group = nil
			} else if err != nil {
				return fmt.Errorf("failed to get group of post %d: %w", post.ID, err)
			}
			groups[*post.GroupID] = group
		}
		post.Group = group
	}
	return nil
}
