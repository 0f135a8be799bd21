package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"yatube/app/authz"
	"yatube/app/forms"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/pagination"
	"yatube/app/repositories"
	"yatube/app/services"

	"github.com/gorilla/mux"
)

// PostController handles the feed, detail, create and edit pages
type PostController struct {
	*Renderer
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, renderer *Renderer) *PostController {
	return &PostController{
		Renderer:    renderer,
		postService: postService,
	}
}

// SetService sets the post service for testing
func (pc *PostController) SetService(service *services.PostService) {
	pc.postService = service
}

// ProfileURL is the profile page of username.
func ProfileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// PostURL is the detail page of a post.
func PostURL(id int) string {
	return "/posts/" + strconv.Itoa(id) + "/"
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pc.postService.Index(r.URL.Query().Get("page"))
	if err != nil {
		pc.serverError(w, r, err)
		return
	}

	data := struct {
		viewData
		Page pagination.Page[*models.Post]
	}{
		viewData: pc.view(r),
		Page:     page,
	}
	pc.render(w, r, "index", http.StatusOK, data)
}

// GroupPosts handles the feed of a single group
func (pc *PostController) GroupPosts(w http.ResponseWriter, r *http.Request) {
	group, page, err := pc.postService.GroupFeed(mux.Vars(r)["slug"], r.URL.Query().Get("page"))
	if errors.Is(err, repositories.ErrNotFound) {
		pc.NotFound(w, r)
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}

	data := struct {
		viewData
		Group *models.Group
		Page  pagination.Page[*models.Post]
	}{
		viewData: pc.view(r),
		Group:    group,
		Page:     page,
	}
	pc.render(w, r, "group_list", http.StatusOK, data)
}

// Profile handles the feed of a single author
func (pc *PostController) Profile(w http.ResponseWriter, r *http.Request) {
	author, page, err := pc.postService.ProfileFeed(mux.Vars(r)["username"], r.URL.Query().Get("page"))
	if errors.Is(err, repositories.ErrNotFound) {
		pc.NotFound(w, r)
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}

	data := struct {
		viewData
		Author *models.User
		Page   pagination.Page[*models.Post]
	}{
		viewData: pc.view(r),
		Author:   author,
		Page:     page,
	}
	pc.render(w, r, "profile", http.StatusOK, data)
}

// Detail handles displaying a single post
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.NotFound(w, r)
		return
	}

	post, err := pc.postService.GetPost(id)
	if errors.Is(err, repositories.ErrNotFound) {
		pc.NotFound(w, r)
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}

	count, err := pc.postService.CountByAuthor(post.AuthorID)
	if err != nil {
		pc.serverError(w, r, err)
		return
	}

	view := pc.view(r)
	data := struct {
		viewData
		Post        *models.Post
		AuthorPosts int
		CanEdit     bool
	}{
		viewData:    view,
		Post:        post,
		AuthorPosts: count,
		CanEdit:     authz.CanEdit(view.Actor, post),
	}
	pc.render(w, r, "post_detail", http.StatusOK, data)
}

// Create shows the new post form and handles its submission
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())

	if r.Method != http.MethodPost {
		pc.renderForm(w, r, forms.NewPostForm(url.Values{}), nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := forms.NewPostForm(r.PostForm)
	_, err := pc.postService.CreatePost(actor, form)
	switch {
	case errors.Is(err, forms.ErrInvalid):
		pc.renderForm(w, r, form, nil)
	case errors.Is(err, services.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusFound)
	case err != nil:
		pc.serverError(w, r, err)
	default:
		http.Redirect(w, r, ProfileURL(actor.Username), http.StatusFound)
	}
}

// Edit shows the edit form to the author and handles its submission.
// Anyone else is sent back to the post.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.NotFound(w, r)
		return
	}
	actor := middleware.ActorFrom(r.Context())

	post, err := pc.postService.EditablePost(actor, id)
	if !pc.handleEditError(w, r, id, err) {
		return
	}

	if r.Method != http.MethodPost {
		pc.renderForm(w, r, forms.PostFormFor(post), post)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := forms.NewPostForm(r.PostForm)
	_, err = pc.postService.UpdatePost(actor, id, form)
	if errors.Is(err, forms.ErrInvalid) {
		pc.renderForm(w, r, form, post)
		return
	}
	if !pc.handleEditError(w, r, id, err) {
		return
	}

	http.Redirect(w, r, PostURL(id), http.StatusFound)
}

// handleEditError writes the response for err and reports whether the
// handler should continue.
func (pc *PostController) handleEditError(w http.ResponseWriter, r *http.Request, id int, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, repositories.ErrNotFound):
		pc.NotFound(w, r)
	case errors.Is(err, services.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusFound)
	case errors.Is(err, services.ErrNotOwner):
		http.Redirect(w, r, PostURL(id), http.StatusFound)
	default:
		pc.serverError(w, r, err)
	}
	return false
}

// renderForm shows the create form, or the edit form when post is set.
func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, form *forms.PostForm, post *models.Post) {
	groups, err := pc.postService.Groups()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}

	data := struct {
		viewData
		Form   *forms.PostForm
		Groups []*models.Group
		Post   *models.Post
		IsEdit bool
	}{
		viewData: pc.view(r),
		Form:     form,
		Groups:   groups,
		Post:     post,
		IsEdit:   post != nil,
	}
	pc.render(w, r, "create_post", http.StatusOK, data)
}
