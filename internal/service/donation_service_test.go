package service

import (
	"context"
	"testing"
	"time"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/repository"
	"github.com/olagu/console/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDonationService(maintenance bool) *donationService {
	repo := repository.NewDonationRepository(kvstore.NewMemoryStore())
	return NewDonationService(repo, maintenance).(*donationService)
}

func TestRecordDonation_TotalPrice(t *testing.T) {
	svc := newTestDonationService(false)

	d, err := svc.Record(context.Background(), &domain.CreateDonationRequest{GameID: "G2", Units: 3})

	require.NoError(t, err)
	assert.Equal(t, 3000, d.TotalPrice)
	assert.NotEmpty(t, d.ID)
	assert.False(t, d.IsProxy)
	assert.Empty(t, d.ProxyGameID)
}

func TestRecordDonation_Validation(t *testing.T) {
	svc := newTestDonationService(false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.CreateDonationRequest
	}{
		{"zero units", domain.CreateDonationRequest{GameID: "G", Units: 0}},
		{"negative units", domain.CreateDonationRequest{GameID: "G", Units: -2}},
		{"blank game id", domain.CreateDonationRequest{GameID: " ", Units: 1}},
		{"proxy without id", domain.CreateDonationRequest{GameID: "G", Units: 1, IsProxy: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(ctx, &tt.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRecordDonation_ProxyIDOnlyWhenProxy(t *testing.T) {
	svc := newTestDonationService(false)
	ctx := context.Background()

	d, err := svc.Record(ctx, &domain.CreateDonationRequest{GameID: "G", Units: 1, ProxyGameID: "P"})
	require.NoError(t, err)
	assert.Empty(t, d.ProxyGameID)

	d, err = svc.Record(ctx, &domain.CreateDonationRequest{GameID: "G", Units: 1, IsProxy: true, ProxyGameID: "P"})
	require.NoError(t, err)
	assert.Equal(t, "P", d.ProxyGameID)
}

func TestRecordDonation_Maintenance(t *testing.T) {
	svc := newTestDonationService(true)
	_, err := svc.Record(context.Background(), &domain.CreateDonationRequest{GameID: "G", Units: 1})
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestDonations_ListAndTotal(t *testing.T) {
	svc := newTestDonationService(false)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	for i, units := range []int{1, 5, 2} {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.Record(ctx, &domain.CreateDonationRequest{GameID: "G", Units: units})
		require.NoError(t, err)
	}

	all, err := svc.ListAll(ctx, adminSession())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[0].Units)
	assert.Equal(t, 1, all[2].Units)

	total, err := svc.Total(ctx, adminSession())
	require.NoError(t, err)
	assert.Equal(t, 8000, total.Total)
	assert.Equal(t, 3, total.Count)

	_, err = svc.Total(ctx, nil)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
