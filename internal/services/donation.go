package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adotapet/adotapet-backend/internal/donation"
	"github.com/adotapet/adotapet-backend/internal/models"
)

// Gateway is the payment-provider surface the orchestrator needs.
type Gateway interface {
	CreateCustomer(ctx context.Context, name, email, phone, taxID string) (string, error)
	CreatePixCharge(ctx context.Context, customerID string, amountMinorUnits int64, description, externalReference string, dueAt time.Time) (string, error)
	GetPixQrCode(ctx context.Context, chargeID string) (*PixQrCode, error)
}

// DonationStore is the persistence surface for donation records.
type DonationStore interface {
	SaveDonation(ctx context.Context, rec *models.DonationRecord) error
	SaveJournal(ctx context.Context, entry *models.ChargeJournal) error
	UpdatePaymentStatus(ctx context.Context, chargeID, status string) error
	ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]models.DonationRecord, error)
	GetByChargeID(ctx context.Context, chargeID string) (*models.DonationRecord, error)
}

// DonationService runs the submission pipeline: create customer, create PIX
// charge, fetch the scannable code, persist the donation record. The
// pipeline is sequential and fail-fast; each step depends on the previous
// one's output. Retried submissions create fresh customer/charge pairs on
// the provider, there is no idempotency deduplication.
type DonationService struct {
	gateway Gateway
	store   DonationStore
	logger  *zap.Logger
}

func NewDonationService(gateway Gateway, store DonationStore, logger *zap.Logger) *DonationService {
	return &DonationService{gateway: gateway, store: store, logger: logger}
}

// ChargeDueWindow is how long a PIX charge stays payable.
const ChargeDueWindow = 24 * time.Hour

// Submit executes the four-step pipeline for a validated request and returns
// the PIX charge. Any failure aborts the remaining steps; the caller
// classifies the error for display.
func (s *DonationService) Submit(ctx context.Context, req *donation.Request) (*models.PixCharge, error) {
	log := s.logger.With(
		zap.String("beneficiary_id", req.Beneficiary.ID),
		zap.Int64("amount_minor_units", req.AmountMinorUnits),
	)

	customerID, err := s.gateway.CreateCustomer(ctx, req.DonorName, req.DonorEmail, req.DonorPhone, req.DonorTaxID)
	if err != nil {
		log.Warn("Customer creation failed", zap.Error(err))
		return nil, fmt.Errorf("create customer: %w", err)
	}

	now := time.Now()
	dueAt := now.Add(ChargeDueWindow)
	externalReference := fmt.Sprintf("donation_%s_%d", req.Beneficiary.ID, now.UnixMilli())
	description := "Doação para " + req.Beneficiary.Name

	chargeID, err := s.gateway.CreatePixCharge(ctx, customerID, req.AmountMinorUnits, description, externalReference, dueAt)
	if err != nil {
		log.Warn("Charge creation failed", zap.Error(err))
		return nil, fmt.Errorf("create charge: %w", err)
	}

	// The charge now exists remotely. Journal it before anything else can
	// fail so a broken persist still leaves a reconcilable trace. The
	// journal itself is best-effort.
	if err := s.store.SaveJournal(ctx, &models.ChargeJournal{
		ChargeID:          chargeID,
		BeneficiaryID:     req.Beneficiary.ID,
		ExternalReference: externalReference,
		CreatedAt:         now,
	}); err != nil {
		log.Error("Charge journal write failed", zap.String("charge_id", chargeID), zap.Error(err))
	}

	qr, err := s.gateway.GetPixQrCode(ctx, chargeID)
	if err != nil {
		log.Warn("QR code fetch failed", zap.String("charge_id", chargeID), zap.Error(err))
		return nil, fmt.Errorf("fetch qr code: %w", err)
	}

	rec := &models.DonationRecord{
		BeneficiaryID:    req.Beneficiary.ID,
		BeneficiaryName:  req.Beneficiary.Name,
		DonorName:        req.DonorName,
		DonorEmail:       req.DonorEmail,
		DonorPhone:       req.DonorPhone,
		DonorTaxID:       req.DonorTaxID,
		AmountMinorUnits: req.AmountMinorUnits,
		PixKey:           req.Beneficiary.PixKey,
		ChargeID:         chargeID,
		QRImageData:      qr.EncodedImage,
		CopyPasteCode:    qr.Payload,
		PaymentStatus:    "PENDING",
		CreatedAt:        now,
	}
	if err := s.store.SaveDonation(ctx, rec); err != nil {
		// Genuine partial failure: the provider charge exists but the record
		// does not. The journal entry above is the reconciliation handle.
		log.Error("Donation persist failed after charge creation",
			zap.String("charge_id", chargeID),
			zap.String("external_reference", externalReference),
			zap.Error(err))
		return nil, fmt.Errorf("persist donation: %w", err)
	}

	log.Info("Donation submitted", zap.String("charge_id", chargeID))

	return &models.PixCharge{
		ChargeID:         chargeID,
		QRImageData:      qr.EncodedImage,
		CopyPasteCode:    qr.Payload,
		AmountMinorUnits: req.AmountMinorUnits,
		BeneficiaryName:  req.Beneficiary.Name,
		DueAt:            dueAt,
	}, nil
}

// ListByBeneficiary returns the donation history of one organization.
func (s *DonationService) ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]models.DonationRecord, error) {
	return s.store.ListByBeneficiary(ctx, beneficiaryID)
}

// HandleWebhook applies a provider payment event to the persisted record.
// Unknown events are ignored.
func (s *DonationService) HandleWebhook(ctx context.Context, payload map[string]interface{}) error {
	event, ok := payload["event"].(string)
	if !ok {
		return fmt.Errorf("invalid webhook event type")
	}

	var status string
	switch event {
	case "PAYMENT_RECEIVED":
		status = "RECEIVED"
	case "PAYMENT_CONFIRMED":
		status = "CONFIRMED"
	case "PAYMENT_OVERDUE":
		status = "OVERDUE"
	default:
		s.logger.Info("Unhandled webhook event", zap.String("event", event))
		return nil
	}

	payment, ok := payload["payment"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid webhook payload: missing payment")
	}
	chargeID, _ := payment["id"].(string)
	if chargeID == "" {
		return fmt.Errorf("invalid webhook payload: missing payment id")
	}

	if err := s.store.UpdatePaymentStatus(ctx, chargeID, status); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	s.logger.Info("Payment status updated", zap.String("charge_id", chargeID), zap.String("status", status))
	return nil
}
