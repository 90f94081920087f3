package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/adotapet/adotapet-backend/internal/donation"
	"github.com/adotapet/adotapet-backend/internal/services"
)

// DonationHandler exposes the donation form flow: session lifecycle, field
// updates, submission and the resulting PIX charge.
type DonationHandler struct {
	sessions  *donation.Sessions
	donations *services.DonationService
	orgs      *services.OrganizationService
	jwtSecret []byte
	logger    *zap.Logger
}

func NewDonationHandler(sessions *donation.Sessions, donations *services.DonationService, orgs *services.OrganizationService, jwtSecret string, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{
		sessions:  sessions,
		donations: donations,
		orgs:      orgs,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

func (h *DonationHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	id := h.sessions.Create()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"session_id": id, "state": string(donation.StateEntry)})
}

// UpdateSession applies partial field updates. Every value is normalized
// eagerly; validation only happens on submit.
func (h *DonationHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	machine, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req struct {
		BeneficiaryID    *string `json:"beneficiary_id"`
		AmountText       *string `json:"amount_text"`
		AmountMinorUnits *int64  `json:"amount_minor_units"`
		Name             *string `json:"name"`
		Email            *string `json:"email"`
		Phone            *string `json:"phone"`
		TaxID            *string `json:"tax_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	var beneficiary *donation.Beneficiary
	if req.BeneficiaryID != nil {
		org, err := h.orgs.Get(r.Context(), *req.BeneficiaryID)
		if err != nil {
			http.Error(w, `{"error":"Organization not found"}`, http.StatusBadRequest)
			return
		}
		beneficiary = &donation.Beneficiary{
			ID:          org.ID.Hex(),
			Name:        org.Name,
			PixKey:      org.PixKey,
			Description: org.Description,
		}
	}

	err := machine.Update(func(f *donation.Form) {
		if beneficiary != nil {
			f.SetBeneficiary(beneficiary)
		}
		if req.AmountText != nil {
			f.SetAmountText(*req.AmountText)
		}
		if req.AmountMinorUnits != nil {
			f.SetAmountPreset(*req.AmountMinorUnits)
		}
		if req.Name != nil {
			f.SetName(*req.Name)
		}
		if req.Email != nil {
			f.SetEmail(*req.Email)
		}
		if req.Phone != nil {
			f.SetPhone(*req.Phone)
		}
		if req.TaxID != nil {
			f.SetTaxID(*req.TaxID)
		}
	})
	if err != nil {
		http.Error(w, `{"error":"Form is locked while the submission is processed"}`, http.StatusConflict)
		return
	}

	h.writeState(w, machine)
}

func (h *DonationHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	machine, ok := h.machine(w, r)
	if !ok {
		return
	}

	charge, err := machine.Submit(r.Context())
	if err != nil {
		var ve *donation.ValidationError
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":      ve.First(),
				"violations": ve.Violations,
			})
		case errors.Is(err, donation.ErrSubmissionInFlight):
			http.Error(w, `{"error":"A submission is already in progress"}`, http.StatusConflict)
		default:
			h.logger.Warn("Donation submission failed", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"title": "Erro na doação",
				"error": donation.Classify(err),
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"state":  string(machine.State()),
		"charge": charge,
	})
}

func (h *DonationHandler) SessionState(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	machine, ok := h.machine(w, r)
	if !ok {
		return
	}
	h.writeState(w, machine)
}

func (h *DonationHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	machine, ok := h.machine(w, r)
	if !ok {
		return
	}
	if err := machine.Reset(); err != nil {
		http.Error(w, `{"error":"Cannot reset while the submission is processed"}`, http.StatusConflict)
		return
	}
	h.writeState(w, machine)
}

func (h *DonationHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	beneficiaryID := r.URL.Query().Get("beneficiary_id")
	if beneficiaryID == "" {
		http.Error(w, `{"error":"beneficiary_id is required"}`, http.StatusBadRequest)
		return
	}

	records, err := h.donations.ListByBeneficiary(r.Context(), beneficiaryID)
	if err != nil {
		h.logger.Warn("Failed to list donations", zap.String("beneficiary_id", beneficiaryID), zap.Error(err))
		http.Error(w, `{"error":"Failed to fetch donations"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Webhook receives provider payment events, authenticated by the access
// token header configured on the provider side.
func (h *DonationHandler) Webhook(webhookToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("asaas-access-token") != webhookToken {
			http.Error(w, `{"error":"Unauthorized webhook"}`, http.StatusUnauthorized)
			return
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, `{"error":"Invalid webhook payload"}`, http.StatusBadRequest)
			return
		}

		if err := h.donations.HandleWebhook(r.Context(), payload); err != nil {
			h.logger.Warn("Webhook processing failed", zap.Error(err))
			http.Error(w, `{"error":"Webhook processing failed"}`, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (h *DonationHandler) machine(w http.ResponseWriter, r *http.Request) (*donation.Machine, bool) {
	vars := mux.Vars(r)
	machine, err := h.sessions.Get(vars["sessionID"])
	if err != nil {
		http.Error(w, `{"error":"Donation session not found"}`, http.StatusNotFound)
		return nil, false
	}
	return machine, true
}

func (h *DonationHandler) writeState(w http.ResponseWriter, machine *donation.Machine) {
	form := machine.Snapshot()
	resp := map[string]interface{}{
		"state": string(machine.State()),
		"form": map[string]interface{}{
			"beneficiary":    form.Beneficiary,
			"amount_display": form.AmountDisplay,
			"name":           form.Name,
			"email":          form.Email,
			"phone":          form.Phone,
			"tax_id":         form.TaxID,
		},
	}
	if charge := machine.Charge(); charge != nil {
		resp["charge"] = charge
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
