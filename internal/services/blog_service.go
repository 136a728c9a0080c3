package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"shapagatBack/internal/models"
	"shapagatBack/internal/repositories"
)

type BlogService struct {
	BlogRepo *repositories.BlogRepository
}

// slugify lowercases the title and collapses every non-alphanumeric run
// into a single dash.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *BlogService) CreatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error) {
	slug := slugify(post.Title)
	if slug == "" {
		slug = uuid.New().String()[:8]
	}
	exists, err := s.BlogRepo.SlugExists(ctx, slug)
	if err != nil {
		return models.BlogPost{}, err
	}
	if exists {
		slug = slug + "-" + uuid.New().String()[:8]
	}
	post.Slug = slug
	return s.BlogRepo.CreatePost(ctx, post)
}

func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	return s.BlogRepo.GetPostBySlug(ctx, slug)
}

func (s *BlogService) GetPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	return s.BlogRepo.GetPosts(ctx, publishedOnly)
}

func (s *BlogService) UpdatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error) {
	return s.BlogRepo.UpdatePost(ctx, post)
}

func (s *BlogService) DeletePost(ctx context.Context, id int) error {
	return s.BlogRepo.DeletePost(ctx, id)
}
