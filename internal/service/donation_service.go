package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/repository"
	"github.com/olagu/console/pkg/logger"
)

// DonationService donation record workflow
type DonationService interface {
	Record(ctx context.Context, req *domain.CreateDonationRequest) (*domain.Donation, error)
	ListAll(ctx context.Context, s *domain.Session) ([]*domain.Donation, error)
	Total(ctx context.Context, s *domain.Session) (*domain.DonationTotal, error)
}

type donationService struct {
	repo        repository.DonationRepository
	maintenance bool
	now         func() time.Time
}

// NewDonationService creates a new DonationService. While maintenance is set no
// donation is accepted.
func NewDonationService(repo repository.DonationRepository, maintenance bool) DonationService {
	return &donationService{repo: repo, maintenance: maintenance, now: time.Now}
}

func (s *donationService) Record(ctx context.Context, req *domain.CreateDonationRequest) (*domain.Donation, error) {
	if s.maintenance {
		return nil, common.ErrUnavailable
	}

	gameID := strings.TrimSpace(req.GameID)
	proxyID := strings.TrimSpace(req.ProxyGameID)
	if gameID == "" {
		return nil, common.Validationf("game id is required")
	}
	if req.Units < 1 {
		return nil, common.Validationf("units must be at least 1")
	}
	if req.IsProxy && proxyID == "" {
		return nil, common.Validationf("proxy game id is required for proxy donations")
	}
	if !req.IsProxy {
		proxyID = ""
	}

	d := &domain.Donation{
		ID:          uuid.NewString(),
		GameID:      gameID,
		Units:       req.Units,
		TotalPrice:  req.Units * domain.UnitPrice,
		IsProxy:     req.IsProxy,
		ProxyGameID: proxyID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	logger.GetLogger().Info().
		Str("donation_id", d.ID).
		Str("game_id", d.GameID).
		Int("total_price", d.TotalPrice).
		Bool("proxy", d.IsProxy).
		Msg("donation recorded")
	return d, nil
}

// ListAll returns every donation, newest first
func (s *donationService) ListAll(ctx context.Context, sess *domain.Session) ([]*domain.Donation, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx)
}

func (s *donationService) Total(ctx context.Context, sess *domain.Session) (*domain.DonationTotal, error) {
	donations, err := s.ListAll(ctx, sess)
	if err != nil {
		return nil, err
	}
	total := &domain.DonationTotal{Count: len(donations)}
	for _, d := range donations {
		total.Total += d.TotalPrice
	}
	return total, nil
}
