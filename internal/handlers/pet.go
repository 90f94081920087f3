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

type PetHandler struct {
	service   *services.PetService
	jwtSecret []byte
	logger    *zap.Logger
}

func NewPetHandler(service *services.PetService, jwtSecret string, logger *zap.Logger) *PetHandler {
	return &PetHandler{service: service, jwtSecret: []byte(jwtSecret), logger: logger}
}

func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.PetFilter{
		OrganizationID: r.URL.Query().Get("organization_id"),
		City:           r.URL.Query().Get("city"),
		Species:        r.URL.Query().Get("species"),
	}

	pets, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Warn("Failed to list pets", zap.Error(err))
		http.Error(w, `{"error":"Failed to fetch pets"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pet, err := h.service.Get(r.Context(), vars["petID"])
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, `{"error":"Pet not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"Failed to fetch pet"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := verifyToken(r, h.jwtSecret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
		return
	}

	var pet models.Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if pet.Name == "" || pet.OrganizationID == "" {
		http.Error(w, `{"error":"Name and organization_id are required"}`, http.StatusBadRequest)
		return
	}

	id, err := h.service.Create(r.Context(), &pet)
	if err != nil {
		h.logger.Warn("Failed to create pet", zap.Error(err))
		http.Error(w, `{"error":"Failed to create pet"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
