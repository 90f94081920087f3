package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adotapet/adotapet-backend/internal/donation"
	"github.com/adotapet/adotapet-backend/internal/models"
)

type fakeGateway struct {
	calls []string

	customerErr error
	chargeErr   error
	qrErr       error

	chargeCustomerID string
	chargeAmount     int64
	chargeDesc       string
	chargeRef        string
	chargeDueAt      time.Time
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, name, email, phone, taxID string) (string, error) {
	g.calls = append(g.calls, "createCustomer")
	if g.customerErr != nil {
		return "", g.customerErr
	}
	return "cus_1", nil
}

func (g *fakeGateway) CreatePixCharge(ctx context.Context, customerID string, amountMinorUnits int64, description, externalReference string, dueAt time.Time) (string, error) {
	g.calls = append(g.calls, "createCharge")
	g.chargeCustomerID = customerID
	g.chargeAmount = amountMinorUnits
	g.chargeDesc = description
	g.chargeRef = externalReference
	g.chargeDueAt = dueAt
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return "pay_1", nil
}

func (g *fakeGateway) GetPixQrCode(ctx context.Context, chargeID string) (*PixQrCode, error) {
	g.calls = append(g.calls, "getQrCode")
	if g.qrErr != nil {
		return nil, g.qrErr
	}
	return &PixQrCode{EncodedImage: "aW1hZ2U=", Payload: "00020126pixpayload"}, nil
}

type fakeStore struct {
	donations   []models.DonationRecord
	journal     []models.ChargeJournal
	donationErr error
	journalErr  error
}

func (s *fakeStore) SaveDonation(ctx context.Context, rec *models.DonationRecord) error {
	if s.donationErr != nil {
		return s.donationErr
	}
	s.donations = append(s.donations, *rec)
	return nil
}

func (s *fakeStore) SaveJournal(ctx context.Context, entry *models.ChargeJournal) error {
	if s.journalErr != nil {
		return s.journalErr
	}
	s.journal = append(s.journal, *entry)
	return nil
}

func (s *fakeStore) UpdatePaymentStatus(ctx context.Context, chargeID, status string) error {
	for i := range s.donations {
		if s.donations[i].ChargeID == chargeID {
			s.donations[i].PaymentStatus = status
			return nil
		}
	}
	return errors.New("donation not found")
}

func (s *fakeStore) ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]models.DonationRecord, error) {
	return s.donations, nil
}

func (s *fakeStore) GetByChargeID(ctx context.Context, chargeID string) (*models.DonationRecord, error) {
	for i := range s.donations {
		if s.donations[i].ChargeID == chargeID {
			return &s.donations[i], nil
		}
	}
	return nil, errors.New("donation not found")
}

func testRequest() *donation.Request {
	return &donation.Request{
		Beneficiary: donation.Beneficiary{
			ID:     "ong1",
			Name:   "Abrigo Feliz",
			PixKey: "abrigo@pix.com",
		},
		AmountMinorUnits: 2500,
		DonorName:        "Maria Silva",
		DonorEmail:       "maria@x.com",
		DonorPhone:       "11987654321",
		DonorTaxID:       "52998224725",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeStore{}
	svc := NewDonationService(gateway, store, zap.NewNop())

	charge, err := svc.Submit(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"createCustomer", "createCharge", "getQrCode"}, gateway.calls)
	assert.Equal(t, "cus_1", gateway.chargeCustomerID)
	assert.Equal(t, int64(2500), gateway.chargeAmount)
	assert.Equal(t, "Doação para Abrigo Feliz", gateway.chargeDesc)
	assert.Regexp(t, regexp.MustCompile(`^donation_ong1_\d+$`), gateway.chargeRef)
	assert.WithinDuration(t, time.Now().Add(ChargeDueWindow), gateway.chargeDueAt, time.Minute)

	require.Len(t, store.donations, 1)
	rec := store.donations[0]
	assert.Equal(t, "ong1", rec.BeneficiaryID)
	assert.Equal(t, "Abrigo Feliz", rec.BeneficiaryName)
	assert.Equal(t, int64(2500), rec.AmountMinorUnits)
	assert.Equal(t, "pay_1", rec.ChargeID)
	assert.Equal(t, "abrigo@pix.com", rec.PixKey)
	assert.Equal(t, "aW1hZ2U=", rec.QRImageData)
	assert.Equal(t, "00020126pixpayload", rec.CopyPasteCode)
	assert.Equal(t, "PENDING", rec.PaymentStatus)

	assert.Equal(t, "pay_1", charge.ChargeID)
	assert.Equal(t, int64(2500), charge.AmountMinorUnits)
	assert.Equal(t, "Abrigo Feliz", charge.BeneficiaryName)

	require.Len(t, store.journal, 1)
	assert.Equal(t, "pay_1", store.journal[0].ChargeID)
}

func TestSubmitCustomerFailureAbortsPipeline(t *testing.T) {
	gateway := &fakeGateway{
		customerErr: &donation.GatewayError{
			StatusCode: 400,
			Errors:     []donation.ProviderError{{Description: "O CPF informado é inválido"}},
		},
	}
	store := &fakeStore{}
	svc := NewDonationService(gateway, store, zap.NewNop())

	_, err := svc.Submit(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, []string{"createCustomer"}, gateway.calls, "charge must not be created")
	assert.Empty(t, store.donations)
	assert.Empty(t, store.journal)
	assert.Equal(t, donation.MsgGatewayTaxID, donation.Classify(err))
}

func TestSubmitChargeFailureClassified(t *testing.T) {
	gateway := &fakeGateway{
		chargeErr: &donation.GatewayError{
			StatusCode: 400,
			Errors:     []donation.ProviderError{{Description: "CPF inválido para cobrança"}},
		},
	}
	store := &fakeStore{}
	svc := NewDonationService(gateway, store, zap.NewNop())

	_, err := svc.Submit(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, []string{"createCustomer", "createCharge"}, gateway.calls)
	assert.Empty(t, store.donations)
	assert.Equal(t, donation.MsgGatewayTaxID, donation.Classify(err), "substring match beats the generic fallback")
}

func TestSubmitQrFailureAborts(t *testing.T) {
	gateway := &fakeGateway{qrErr: errors.New("timeout")}
	store := &fakeStore{}
	svc := NewDonationService(gateway, store, zap.NewNop())

	_, err := svc.Submit(context.Background(), testRequest())
	require.Error(t, err)
	assert.Empty(t, store.donations)
	// The charge already exists remotely; the journal must have captured it.
	require.Len(t, store.journal, 1)
	assert.Equal(t, "pay_1", store.journal[0].ChargeID)
	assert.Equal(t, donation.MsgGatewayGeneric, donation.Classify(err))
}

func TestSubmitPersistFailureLeavesJournal(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeStore{donationErr: errors.New("write concern failed")}
	svc := NewDonationService(gateway, store, zap.NewNop())

	_, err := svc.Submit(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, donation.MsgGatewayGeneric, donation.Classify(err))

	// Partial failure: the remote charge stands, the journal entry is the
	// reconciliation handle.
	require.Len(t, store.journal, 1)
	assert.Equal(t, "pay_1", store.journal[0].ChargeID)
	assert.Equal(t, "ong1", store.journal[0].BeneficiaryID)
}

func TestSubmitJournalFailureDoesNotAbort(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeStore{journalErr: errors.New("journal down")}
	svc := NewDonationService(gateway, store, zap.NewNop())

	charge, err := svc.Submit(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "pay_1", charge.ChargeID)
	require.Len(t, store.donations, 1)
}

// Two submissions of the same logical donation create two distinct
// customer/charge pairs: there is no idempotency deduplication.
func TestSubmitNoDeduplication(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeStore{}
	svc := NewDonationService(gateway, store, zap.NewNop())

	req := testRequest()
	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"createCustomer", "createCharge", "getQrCode",
		"createCustomer", "createCharge", "getQrCode",
	}, gateway.calls)
	assert.Len(t, store.donations, 2)
}

func TestHandleWebhook(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeStore{}
	svc := NewDonationService(gateway, store, zap.NewNop())

	_, err := svc.Submit(context.Background(), testRequest())
	require.NoError(t, err)

	err = svc.HandleWebhook(context.Background(), map[string]interface{}{
		"event":   "PAYMENT_CONFIRMED",
		"payment": map[string]interface{}{"id": "pay_1"},
	})
	require.NoError(t, err)
	rec, err := store.GetByChargeID(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", rec.PaymentStatus)

	// Unknown events are ignored without error.
	err = svc.HandleWebhook(context.Background(), map[string]interface{}{
		"event":   "PAYMENT_CREATED",
		"payment": map[string]interface{}{"id": "pay_1"},
	})
	assert.NoError(t, err)

	// Malformed payloads are rejected.
	assert.Error(t, svc.HandleWebhook(context.Background(), map[string]interface{}{"event": 5}))
	assert.Error(t, svc.HandleWebhook(context.Background(), map[string]interface{}{"event": "PAYMENT_RECEIVED"}))
}
