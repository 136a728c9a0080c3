package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shapagatBack/internal/models"
	"shapagatBack/internal/services"
)

type BlogHandler struct {
	Service *services.BlogService
}

func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if post.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	created, err := h.Service.CreatePost(r.Context(), post)
	if err != nil {
		http.Error(w, "Failed to create", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(created)
}

// GET /blog?all=1 includes unpublished posts (admin listing).
func (h *BlogHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	publishedOnly := r.URL.Query().Get("all") == ""
	posts, err := h.Service.GetPosts(r.Context(), publishedOnly)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(posts)
}

func (h *BlogHandler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get(":slug")
	post, err := h.Service.GetPostBySlug(r.Context(), slug)
	if err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(post)
}

func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var post models.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	post.ID = id
	updated, err := h.Service.UpdatePost(r.Context(), post)
	if err != nil {
		if errors.Is(err, models.ErrBlogPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(updated)
}

func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	if err := h.Service.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrBlogPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
