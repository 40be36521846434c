package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hyperjump/kondate/internal/allocator"
	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// envelope is the response shape of the planning endpoints.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type planRequest struct {
	UserProfile json.RawMessage     `json:"user_profile"`
	ParsedInput *models.ParsedInput `json:"parsed_input"`
}

// decodeProfile fills fields absent from raw with the default profile.
func decodeProfile(raw json.RawMessage) (models.UserProfile, error) {
	profile := models.DefaultUserProfile()
	if len(raw) == 0 || string(raw) == "null" {
		return profile, nil
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return profile, err
	}
	return profile, nil
}

func (s *Server) handleMealPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: err.Error()})
		return
	}
	if req.ParsedInput == nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "parsed_input is required"})
		return
	}
	profile, err := decodeProfile(req.UserProfile)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid user_profile", Error: err.Error()})
		return
	}
	if err := s.validator.Validate(profile); err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid user_profile", Error: err.Error()})
		return
	}

	s.logger.Debug("meal plan request",
		zap.Int("target_calories", profile.TargetCalories),
		zap.Int("eaten_slots", len(req.ParsedInput.EatenSlots())),
	)
	result, err := s.planner.Plan(r.Context(), profile, *req.ParsedInput)
	if err != nil {
		s.logger.Error("meal plan failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrGeneration) {
			status = http.StatusBadGateway
		}
		s.respondJSON(w, status, envelope{Message: "Failed to generate meal plan", Error: err.Error()})
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Meal plan generated successfully",
		Data:    result,
	})
}

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	body := json.NewDecoder(r.Body)
	if err := body.Decode(&raw); err != nil || raw == nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "No data provided"})
		return
	}
	if _, ok := raw["target_calories"]; !ok {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "Missing required field: target_calories"})
		return
	}
	data, _ := json.Marshal(raw)
	profile, err := decodeProfile(data)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid user profile", Error: err.Error()})
		return
	}
	if err := s.validator.Validate(profile); err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid user profile", Error: err.Error()})
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{Success: true, Message: "User profile validated", Data: profile})
}

// handleAllocate returns the caloric plan only. With ?base=true it returns
// the unadjusted per-slot split of the target.
func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: err.Error()})
		return
	}
	profile, err := decodeProfile(req.UserProfile)
	if err == nil {
		err = s.validator.Validate(profile)
	}
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid user_profile", Error: err.Error()})
		return
	}

	if base, _ := strconv.ParseBool(r.URL.Query().Get("base")); base {
		s.respondJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Base allocation",
			Data:    allocator.AllocateBase(profile.TargetCalories),
		})
		return
	}
	var input models.ParsedInput
	if req.ParsedInput != nil {
		input = *req.ParsedInput
	}
	s.respondJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Caloric plan computed",
		Data:    allocator.AllocateRemaining(profile.TargetCalories, input.AlreadyEaten),
	})
}
