package service

import (
	"context"
	"fmt"
	"log"

	"vims/internal/model"
	"vims/internal/repository"
	"vims/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Risk factor weights and caps.
var (
	overdueWeight   = decimal.NewFromInt(10)
	overdueCap      = decimal.NewFromInt(40)
	lateWeight      = decimal.NewFromInt(5)
	lateCap         = decimal.NewFromInt(30)
	ratioWeight     = decimal.NewFromInt(20)
	escalatedWeight = decimal.NewFromInt(5)
	escalatedCap    = decimal.NewFromInt(10)
	maxRiskScore    = decimal.NewFromInt(100)
)

type VendorRiskResponse struct {
	VendorID     string `json:"vendor_id"`
	VendorName   string `json:"vendor_name"`
	RiskScore    string `json:"risk_score"`
	OverdueCount int    `json:"overdue_count"`
	LateCount    int    `json:"late_count"`
	PaymentRatio string `json:"payment_ratio"`
}

type RiskService interface {
	// CalculateRiskScore computes the score without persisting it.
	CalculateRiskScore(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error)
	// UpdateVendorRiskScore recomputes and stores the vendor's score.
	UpdateVendorRiskScore(ctx context.Context, vendorID string) (VendorRiskResponse, error)
	GetHighRiskVendors(ctx context.Context, threshold float64) ([]VendorRiskResponse, error)
	// RefreshAllRiskScores recomputes every vendor's score, returning the
	// number of vendors updated. Per-vendor failures are logged and skipped.
	RefreshAllRiskScores(ctx context.Context) (int, error)
}

type riskService struct {
	vendorRepo  repository.VendorRepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
}

func NewRiskService(
	vendorRepo repository.VendorRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) RiskService {
	return &riskService{
		vendorRepo:  vendorRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
	}
}

type riskBreakdown struct {
	score        decimal.Decimal
	overdueCount int
	lateCount    int
	paymentRatio decimal.Decimal
}

func (s *riskService) CalculateRiskScore(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error) {
	breakdown, err := s.computeRisk(ctx, vendorID)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.score, nil
}

func (s *riskService) computeRisk(ctx context.Context, vendorID uuid.UUID) (riskBreakdown, error) {
	invoices, err := s.invoiceRepo.FindByVendorID(ctx, vendorID)
	if err != nil {
		return riskBreakdown{}, fmt.Errorf("failed to fetch vendor invoices: %w", err)
	}

	// A vendor with no invoicing history carries no risk.
	if len(invoices) == 0 {
		return riskBreakdown{score: decimal.Zero, paymentRatio: decimal.NewFromInt(1)}, nil
	}

	overdueCount := 0
	lateCount := 0
	escalatedCount := 0
	totalInvoiced := decimal.Zero
	totalPaid := decimal.Zero

	for _, inv := range invoices {
		totalInvoiced = totalInvoiced.Add(inv.TotalAmount)

		paid, sumErr := s.paymentRepo.SumByInvoiceID(ctx, inv.ID)
		if sumErr != nil {
			return riskBreakdown{}, fmt.Errorf("failed to sum payments: %w", sumErr)
		}
		totalPaid = totalPaid.Add(paid)

		if inv.IsOverdue {
			overdueCount++
		}
		if inv.EscalationLevel != nil && *inv.EscalationLevel > 0 {
			escalatedCount++
		}

		// A paid invoice is late when its final payment landed after the
		// due date.
		if inv.Status == model.StatusPaid {
			last, lastErr := s.paymentRepo.LastByInvoiceID(ctx, inv.ID)
			if lastErr != nil {
				return riskBreakdown{}, fmt.Errorf("failed to fetch last payment: %w", lastErr)
			}
			if last != nil && last.PaymentDate.After(inv.DueDate) {
				lateCount++
			}
		}
	}

	ratio := decimal.NewFromInt(1)
	if totalInvoiced.IsPositive() {
		ratio = totalPaid.Div(totalInvoiced).Round(2)
		if ratio.GreaterThan(decimal.NewFromInt(1)) {
			ratio = decimal.NewFromInt(1)
		}
	}

	overdueFactor := decimal.Min(overdueCap, decimal.NewFromInt(int64(overdueCount)).Mul(overdueWeight))
	lateFactor := decimal.Min(lateCap, decimal.NewFromInt(int64(lateCount)).Mul(lateWeight))
	ratioFactor := decimal.NewFromInt(1).Sub(ratio).Mul(ratioWeight)
	escalatedFactor := decimal.Min(escalatedCap, decimal.NewFromInt(int64(escalatedCount)).Mul(escalatedWeight))

	score := overdueFactor.Add(lateFactor).Add(ratioFactor).Add(escalatedFactor)
	score = decimal.Min(maxRiskScore, score).Round(2)

	return riskBreakdown{
		score:        score,
		overdueCount: overdueCount,
		lateCount:    lateCount,
		paymentRatio: ratio,
	}, nil
}

func (s *riskService) UpdateVendorRiskScore(ctx context.Context, vendorID string) (VendorRiskResponse, error) {
	id, err := uuid.Parse(vendorID)
	if err != nil {
		return VendorRiskResponse{}, apperror.Validation("invalid vendor id: %s", vendorID)
	}

	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return VendorRiskResponse{}, apperror.NotFound("vendor not found with id: %s", vendorID)
	}

	breakdown, err := s.computeRisk(ctx, id)
	if err != nil {
		return VendorRiskResponse{}, err
	}

	vendor.RiskScore, _ = breakdown.score.Float64()
	if saveErr := s.vendorRepo.Save(ctx, vendor); saveErr != nil {
		return VendorRiskResponse{}, fmt.Errorf("failed to update vendor risk score: %w", saveErr)
	}

	return VendorRiskResponse{
		VendorID:     vendor.ID.String(),
		VendorName:   vendor.Name,
		RiskScore:    breakdown.score.StringFixed(2),
		OverdueCount: breakdown.overdueCount,
		LateCount:    breakdown.lateCount,
		PaymentRatio: breakdown.paymentRatio.StringFixed(2),
	}, nil
}

func (s *riskService) GetHighRiskVendors(ctx context.Context, threshold float64) ([]VendorRiskResponse, error) {
	vendors, err := s.vendorRepo.FindByRiskScoreAbove(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch high risk vendors: %w", err)
	}

	res := make([]VendorRiskResponse, 0, len(vendors))
	for _, v := range vendors {
		res = append(res, VendorRiskResponse{
			VendorID:   v.ID.String(),
			VendorName: v.Name,
			RiskScore:  decimal.NewFromFloat(v.RiskScore).StringFixed(2),
		})
	}
	return res, nil
}

func (s *riskService) RefreshAllRiskScores(ctx context.Context) (int, error) {
	vendors, err := s.vendorRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	updated := 0
	for i := range vendors {
		vendor := &vendors[i]
		breakdown, calcErr := s.computeRisk(ctx, vendor.ID)
		if calcErr != nil {
			log.Printf("risk: failed to compute score for vendor %s: %v", vendor.ID, calcErr)
			continue
		}
		vendor.RiskScore, _ = breakdown.score.Float64()
		if saveErr := s.vendorRepo.Save(ctx, vendor); saveErr != nil {
			log.Printf("risk: failed to save score for vendor %s: %v", vendor.ID, saveErr)
			continue
		}
		updated++
	}
	return updated, nil
}
