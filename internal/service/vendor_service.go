package service

import (
	"context"
	"fmt"
	"time"

	"vims/internal/model"
	"vims/internal/repository"
	"vims/pkg/apperror"

	"github.com/google/uuid"
)

type VendorRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Gstin  string `json:"gstin" binding:"required"`
	Status string `json:"status"`
}

type VendorResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Gstin     string  `json:"gstin"`
	Status    string  `json:"status"`
	RiskScore float64 `json:"risk_score"`
	CreatedAt string  `json:"created_at"`
}

type VendorService interface {
	CreateVendor(ctx context.Context, req VendorRequest, actor Actor) (VendorResponse, error)
	GetVendors(ctx context.Context) ([]VendorResponse, error)
	GetVendorByID(ctx context.Context, id string) (VendorResponse, error)
	UpdateVendor(ctx context.Context, id string, req VendorRequest, actor Actor) (VendorResponse, error)
	DeleteVendor(ctx context.Context, id string, actor Actor) error
}

type vendorService struct {
	vendorRepo   repository.VendorRepository
	auditService AuditService
}

func NewVendorService(vendorRepo repository.VendorRepository, auditService AuditService) VendorService {
	return &vendorService{vendorRepo: vendorRepo, auditService: auditService}
}

func (s *vendorService) CreateVendor(ctx context.Context, req VendorRequest, actor Actor) (VendorResponse, error) {
	if err := validateGstin(req.Gstin); err != nil {
		return VendorResponse{}, err
	}

	if existing, _ := s.vendorRepo.FindByEmail(ctx, req.Email); existing != nil {
		return VendorResponse{}, apperror.Conflict("vendor already exists with email: %s", req.Email)
	}
	if existing, _ := s.vendorRepo.FindByGstin(ctx, req.Gstin); existing != nil {
		return VendorResponse{}, apperror.Conflict("vendor already exists with GSTIN: %s", req.Gstin)
	}

	vendor := model.Vendor{
		Name:   req.Name,
		Email:  req.Email,
		Gstin:  req.Gstin,
		Status: model.VendorActive,
	}
	if req.Status != "" {
		if err := validateVendorStatus(req.Status); err != nil {
			return VendorResponse{}, err
		}
		vendor.Status = req.Status
	}

	if err := s.vendorRepo.Create(ctx, &vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.auditService.Record(ctx, actor.Username, model.ActionCreate, model.EntityVendor, vendor.ID.String(),
		nil, toVendorResponse(vendor), "Vendor created: "+vendor.Name)

	return toVendorResponse(vendor), nil
}

func (s *vendorService) GetVendors(ctx context.Context) ([]VendorResponse, error) {
	vendors, err := s.vendorRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	res := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		res = append(res, toVendorResponse(v))
	}
	return res, nil
}

func (s *vendorService) GetVendorByID(ctx context.Context, id string) (VendorResponse, error) {
	vendor, err := s.findVendor(ctx, id)
	if err != nil {
		return VendorResponse{}, err
	}
	return toVendorResponse(*vendor), nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, id string, req VendorRequest, actor Actor) (VendorResponse, error) {
	vendor, err := s.findVendor(ctx, id)
	if err != nil {
		return VendorResponse{}, err
	}

	if err := validateGstin(req.Gstin); err != nil {
		return VendorResponse{}, err
	}

	if existing, _ := s.vendorRepo.FindByEmail(ctx, req.Email); existing != nil && existing.ID != vendor.ID {
		return VendorResponse{}, apperror.Conflict("vendor already exists with email: %s", req.Email)
	}
	if existing, _ := s.vendorRepo.FindByGstin(ctx, req.Gstin); existing != nil && existing.ID != vendor.ID {
		return VendorResponse{}, apperror.Conflict("vendor already exists with GSTIN: %s", req.Gstin)
	}

	oldValue := toVendorResponse(*vendor)

	vendor.Name = req.Name
	vendor.Email = req.Email
	vendor.Gstin = req.Gstin
	if req.Status != "" {
		if err := validateVendorStatus(req.Status); err != nil {
			return VendorResponse{}, err
		}
		vendor.Status = req.Status
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to update vendor: %w", err)
	}

	s.auditService.Record(ctx, actor.Username, model.ActionUpdate, model.EntityVendor, vendor.ID.String(),
		oldValue, toVendorResponse(*vendor), "Vendor updated: "+vendor.Name)

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, id string, actor Actor) error {
	vendor, err := s.findVendor(ctx, id)
	if err != nil {
		return err
	}

	if err := s.vendorRepo.Delete(ctx, vendor); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}

	s.auditService.Record(ctx, actor.Username, model.ActionDelete, model.EntityVendor, vendor.ID.String(),
		toVendorResponse(*vendor), nil, "Vendor deleted: "+vendor.Name)
	return nil
}

func (s *vendorService) findVendor(ctx context.Context, id string) (*model.Vendor, error) {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid vendor id: %s", id)
	}
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, apperror.NotFound("vendor not found with id: %s", id)
	}
	return vendor, nil
}

// GSTIN is 15 characters, the first two being the numeric state code.
func validateGstin(gstin string) error {
	if len(gstin) != 15 {
		return apperror.Validation("GSTIN must be 15 characters")
	}
	for _, c := range gstin[:2] {
		if c < '0' || c > '9' {
			return apperror.Validation("GSTIN must start with a 2-digit state code")
		}
	}
	return nil
}

func validateVendorStatus(status string) error {
	switch status {
	case model.VendorActive, model.VendorInactive, model.VendorSuspended:
		return nil
	}
	return apperror.Validation("invalid vendor status: %s", status)
}

func toVendorResponse(v model.Vendor) VendorResponse {
	return VendorResponse{
		ID:        v.ID.String(),
		Name:      v.Name,
		Email:     v.Email,
		Gstin:     v.Gstin,
		Status:    v.Status,
		RiskScore: v.RiskScore,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}
