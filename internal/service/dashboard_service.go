package service

import (
	"context"

	"github.com/olagu/console/internal/domain"
)

// DashboardSummary admin landing page numbers. Donation and admin figures are
// only filled in for super admins.
type DashboardSummary struct {
	PendingPosts   int  `json:"pending_posts"`
	DonationsTotal int  `json:"donations_total"`
	DonationsCount int  `json:"donations_count"`
	AdminCount     int  `json:"admin_count"`
	IsSuperAdmin   bool `json:"is_super_admin"`
}

// DashboardService aggregates the other workflows
type DashboardService interface {
	Summary(ctx context.Context, s *domain.Session) (*DashboardSummary, error)
}

type dashboardService struct {
	posts     PostService
	donations DonationService
	admins    AdminService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(posts PostService, donations DonationService, admins AdminService) DashboardService {
	return &dashboardService{posts: posts, donations: donations, admins: admins}
}

func (d *dashboardService) Summary(ctx context.Context, s *domain.Session) (*DashboardSummary, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}

	pending, err := d.posts.CountPending(ctx, s)
	if err != nil {
		return nil, err
	}
	out := &DashboardSummary{PendingPosts: pending, IsSuperAdmin: s.IsSuperAdmin()}
	if !s.IsSuperAdmin() {
		return out, nil
	}

	total, err := d.donations.Total(ctx, s)
	if err != nil {
		return nil, err
	}
	out.DonationsTotal = total.Total
	out.DonationsCount = total.Count

	count, err := d.admins.Count(ctx, s)
	if err != nil {
		return nil, err
	}
	out.AdminCount = count
	return out, nil
}
