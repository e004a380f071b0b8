package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/repository"
	"github.com/olagu/console/pkg/logger"
)

// EligibilityRegistrar records that a game account qualified after an approved post
type EligibilityRegistrar interface {
	RegisterEligibleAccount(ctx context.Context, token, accountID string) error
}

// PostService submission and review workflow
type PostService interface {
	Submit(ctx context.Context, gameID, image168, imageDC string) (*domain.Post, error)
	ListPending(ctx context.Context, s *domain.Session) ([]*domain.Post, error)
	CountPending(ctx context.Context, s *domain.Session) (int, error)
	Review(ctx context.Context, s *domain.Session, postID int64, decision string) (*domain.Post, error)
}

// PostServiceConfig daily window settings
type PostServiceConfig struct {
	Location *time.Location
	// BlockAfterRejection makes a rejected submission still count toward today's limit
	BlockAfterRejection bool
}

type postService struct {
	repo      repository.PostRepository
	registrar EligibilityRegistrar
	cfg       PostServiceConfig
	now       func() time.Time

	// serializes check-then-write sequences within this process
	mu sync.Mutex
}

// NewPostService creates a new PostService
func NewPostService(repo repository.PostRepository, registrar EligibilityRegistrar, cfg PostServiceConfig) PostService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &postService{repo: repo, registrar: registrar, cfg: cfg, now: time.Now}
}

// dayWindow returns [local midnight, +24h) around t
func dayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour)
}

// Submit stores a pending post unless the account already submitted today
func (s *postService) Submit(ctx context.Context, gameID, image168, imageDC string) (*domain.Post, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, common.Validationf("game id is required")
	}
	if strings.TrimSpace(image168) == "" || strings.TrimSpace(imageDC) == "" {
		return nil, common.Validationf("both proof images are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	start, end := dayWindow(now, s.cfg.Location)
	for _, p := range posts {
		if p.GameID != gameID || p.CreatedAt.Before(start) || !p.CreatedAt.Before(end) {
			continue
		}
		if p.Blocks(s.cfg.BlockAfterRejection) {
			return nil, common.ErrDuplicateSubmission
		}
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	post := &domain.Post{
		ID:        id,
		GameID:    gameID,
		Image168:  image168,
		ImageDC:   imageDC,
		Status:    domain.PostStatusPending,
		CreatedAt: now,
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}

	logger.GetLogger().Info().
		Int64("post_id", post.ID).
		Str("game_id", gameID).
		Msg("post submitted")
	return post, nil
}

// ListPending returns pending posts in ascending id order
func (s *postService) ListPending(ctx context.Context, sess *domain.Session) ([]*domain.Post, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.IsPending() {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

func (s *postService) CountPending(ctx context.Context, sess *domain.Session) (int, error) {
	pending, err := s.ListPending(ctx, sess)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// Review applies an admin decision. Approval registers the account's eligibility
// first and is committed only if that succeeds; on failure the post stays pending.
func (s *postService) Review(ctx context.Context, sess *domain.Session, postID int64, decision string) (*domain.Post, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	status, ok := domain.ParseDecision(decision)
	if !ok {
		return nil, common.Validationf("unknown decision %q", decision)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPending() {
		return nil, common.ErrInvalidTransition
	}

	log := logger.WithUsername(sess.Username)
	if status == domain.PostStatusApproved {
		if err := s.registrar.RegisterEligibleAccount(ctx, sess.Token, post.GameID); err != nil {
			log.Warn().Err(err).
				Int64("post_id", post.ID).
				Str("game_id", post.GameID).
				Msg("eligibility registration failed, post left pending")
			return nil, err
		}
	}

	reviewedAt := s.now()
	post.Status = status
	post.ReviewedAt = &reviewedAt
	post.ReviewedBy = sess.Username
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}

	log.Info().
		Int64("post_id", post.ID).
		Str("status", string(status)).
		Msg("post reviewed")
	return post, nil
}
