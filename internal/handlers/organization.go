package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/adotapet/adotapet-backend/internal/models"
	"github.com/adotapet/adotapet-backend/internal/services"
)

type OrganizationHandler struct {
	service   *services.OrganizationService
	jwtSecret []byte
	logger    *zap.Logger
}

func NewOrganizationHandler(service *services.OrganizationService, jwtSecret string, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{service: service, jwtSecret: []byte(jwtSecret), logger: logger}
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Warn("Failed to list organizations", zap.Error(err))
		http.Error(w, `{"error":"Failed to fetch organizations"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	org, err := h.service.Get(r.Context(), vars["orgID"])
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, `{"error":"Organization not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"Failed to fetch organization"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	var org models.Organization
	if err := json.NewDecoder(r.Body).Decode(&org); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if org.Name == "" || org.PixKey == "" {
		http.Error(w, `{"error":"Name and pix_key are required"}`, http.StatusBadRequest)
		return
	}

	id, err := h.service.Create(r.Context(), &org)
	if err != nil {
		h.logger.Warn("Failed to create organization", zap.Error(err))
		http.Error(w, `{"error":"Failed to create organization"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
