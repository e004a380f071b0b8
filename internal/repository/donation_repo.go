package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/kvstore"
)

// CollectionDonations record store collection for donations
const CollectionDonations = "donations"

// DonationRepository defines the interface for donation data access
type DonationRepository interface {
	Create(ctx context.Context, d *domain.Donation) error
	// FindAll returns every donation, newest first
	FindAll(ctx context.Context) ([]*domain.Donation, error)
}

type donationRepository struct {
	store kvstore.Store
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(store kvstore.Store) DonationRepository {
	return &donationRepository{store: store}
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	return r.store.Set(ctx, CollectionDonations, d.ID, d)
}

func (r *donationRepository) FindAll(ctx context.Context) ([]*domain.Donation, error) {
	var donations []*domain.Donation
	err := r.store.Iterate(ctx, CollectionDonations, func(key string, raw []byte) error {
		var d domain.Donation
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("donation %s: %w", key, common.ErrFormat)
		}
		donations = append(donations, &d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(donations, func(i, j int) bool {
		return donations[i].CreatedAt.After(donations[j].CreatedAt)
	})
	return donations, nil
}
