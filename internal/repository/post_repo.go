package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/kvstore"
)

// CollectionPosts record store collection for posts
const CollectionPosts = "posts"

// PostRepository defines the interface for post data access
type PostRepository interface {
	NextID(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	Save(ctx context.Context, post *domain.Post) error
	// FindAll returns every post in ascending id order
	FindAll(ctx context.Context) ([]*domain.Post, error)
}

// postRepository implements PostRepository over the record store
type postRepository struct {
	store kvstore.Store
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(store kvstore.Store) PostRepository {
	return &postRepository{store: store}
}

func (r *postRepository) NextID(ctx context.Context) (int64, error) {
	return r.store.NextSequence(ctx, CollectionPosts)
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	err := r.store.Get(ctx, CollectionPosts, strconv.FormatInt(id, 10), &post)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, fmt.Errorf("post %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Save(ctx context.Context, post *domain.Post) error {
	return r.store.Set(ctx, CollectionPosts, strconv.FormatInt(post.ID, 10), post)
}

func (r *postRepository) FindAll(ctx context.Context) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.store.Iterate(ctx, CollectionPosts, func(key string, raw []byte) error {
		var p domain.Post
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("post %s: %w", key, common.ErrFormat)
		}
		posts = append(posts, &p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
