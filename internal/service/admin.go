package service

import (
	"context"
	"fmt"
	"log/slog"

	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
	ActionSuspend ModerationAction = "suspend"
)

// moderation maps an action to the statuses it may start from and the status
// it produces.
var moderation = map[ModerationAction]struct {
	from []model.VendorStatus
	to   model.VendorStatus
}{
	ActionApprove: {from: []model.VendorStatus{model.VendorPending, model.VendorRejected, model.VendorSuspended}, to: model.VendorApproved},
	ActionReject:  {from: []model.VendorStatus{model.VendorPending}, to: model.VendorRejected},
	ActionSuspend: {from: []model.VendorStatus{model.VendorApproved}, to: model.VendorSuspended},
}

type AdminService interface {
	ListVendors(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error)
	ModerateVendor(ctx context.Context, vendorID string, action ModerationAction) (*model.Vendor, error)
}

type adminServiceImpl struct {
	vendorRepo  repository.VendorRepository
	profileRepo repository.ProfileRepository
	log         *slog.Logger
}

func NewAdminService(
	vendorRepo repository.VendorRepository,
	profileRepo repository.ProfileRepository,
	log *slog.Logger,
) AdminService {
	return &adminServiceImpl{
		vendorRepo:  vendorRepo,
		profileRepo: profileRepo,
		log:         log,
	}
}

func (s *adminServiceImpl) ListVendors(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error) {
	return s.vendorRepo.List(ctx, status)
}

// ModerateVendor changes the vendor's status. Approving also gives the owner
// the vendor role.
func (s *adminServiceImpl) ModerateVendor(ctx context.Context, vendorID string, action ModerationAction) (*model.Vendor, error) {
	rule, ok := moderation[action]
	if !ok {
		return nil, invalid("unknown moderation action %q", action)
	}

	vendor, err := s.vendorRepo.Get(ctx, vendorID)
	if err != nil {
		return nil, notFound(err, "vendor")
	}

	allowed := false
	for _, from := range rule.from {
		if vendor.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%s a %s vendor: %w", action, vendor.Status, ErrInvalidTransition)
	}

	if err := s.vendorRepo.UpdateStatus(ctx, vendor.ID, rule.to); err != nil {
		return nil, notFound(err, "vendor")
	}

	if rule.to == model.VendorApproved {
		if err := s.profileRepo.SetRole(ctx, vendor.OwnerID, model.RoleVendor); err != nil {
			return nil, fmt.Errorf("grant vendor role: %w", err)
		}
	}

	s.log.InfoContext(ctx, "vendor moderated",
		slog.String("action", "moderate_vendor"),
		slog.String("vendor_id", vendor.ID),
		slog.String("from", string(vendor.Status)),
		slog.String("to", string(rule.to)),
	)
	vendor.Status = rule.to
	return vendor, nil
}
