package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/adotapet/adotapet-backend/internal/donation"
)

// AsaasClient talks to the Asaas payment API: customer creation, PIX charge
// creation and QR code retrieval. Non-2xx responses are decoded into
// donation.GatewayError so the classifier can produce a user-facing message.
type AsaasClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewAsaasClient(baseURL, apiKey string, logger *zap.Logger) *AsaasClient {
	return &AsaasClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type asaasCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	MobilePhone string `json:"mobilePhone"`
	CpfCnpj     string `json:"cpfCnpj"`
}

type asaasChargeRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description"`
	ExternalReference string  `json:"externalReference"`
	Status            string  `json:"status"`
}

type asaasIDResponse struct {
	ID string `json:"id"`
}

// PixQrCode is the scannable form of a charge.
type PixQrCode struct {
	EncodedImage string `json:"encodedImage"` // base64 PNG
	Payload      string `json:"payload"`      // copy-paste code
}

type asaasErrorResponse struct {
	Errors []donation.ProviderError `json:"errors"`
}

// CreateCustomer registers the donor with the provider and returns the
// customer ID.
func (c *AsaasClient) CreateCustomer(ctx context.Context, name, email, phone, taxID string) (string, error) {
	body := asaasCustomerRequest{
		Name:        name,
		Email:       email,
		Phone:       phone,
		MobilePhone: phone,
		CpfCnpj:     taxID,
	}
	var resp asaasIDResponse
	if err := c.post(ctx, "/customers", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreatePixCharge creates a PENDING PIX charge against the customer. The
// amount arrives in centavos and is sent as a major-unit decimal; the due
// date is 24 hours out.
func (c *AsaasClient) CreatePixCharge(ctx context.Context, customerID string, amountMinorUnits int64, description, externalReference string, dueAt time.Time) (string, error) {
	body := asaasChargeRequest{
		Customer:          customerID,
		BillingType:       "PIX",
		Value:             float64(amountMinorUnits) / 100,
		DueDate:           dueAt.Format("2006-01-02"),
		Description:       description,
		ExternalReference: externalReference,
		Status:            "PENDING",
	}
	var resp asaasIDResponse
	if err := c.post(ctx, "/payments", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetPixQrCode fetches the QR image and copy-paste payload for a charge.
func (c *AsaasClient) GetPixQrCode(ctx context.Context, chargeID string) (*PixQrCode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+chargeID+"/pixQrCode", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build qr code request: %w", err)
	}
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qr code request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var qr PixQrCode
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("failed to decode qr code response: %w", err)
	}
	return &qr, nil
}

func (c *AsaasClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// decodeError turns a non-2xx provider response into a GatewayError. An
// undecodable body still yields a GatewayError, just without structured
// entries, which classifies to the generic message.
func (c *AsaasClient) decodeError(resp *http.Response) error {
	var body asaasErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("Unparseable provider error body", zap.Int("status", resp.StatusCode), zap.Error(err))
	}
	if len(body.Errors) > 0 {
		c.logger.Warn("Provider rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("code", body.Errors[0].Code),
			zap.String("description", body.Errors[0].Description))
	}
	return &donation.GatewayError{StatusCode: resp.StatusCode, Errors: body.Errors}
}
