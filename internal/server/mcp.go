package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/hyperjump/kondate/internal/allocator"
	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// Tool names served on /mcp.
const (
	toolPlanMeals        = "plan_meals"
	toolAllocateCalories = "allocate_calories"
	toolSearchFoods      = "search_foods"
)

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

// PlanMealsParams are the arguments of plan_meals.
type PlanMealsParams struct {
	UserProfile json.RawMessage     `json:"user_profile,omitempty" description:"User profile; target_calories drives the split"`
	ParsedInput *models.ParsedInput `json:"parsed_input" description:"Structured request with already_eaten and meal_requests"`
}

// AllocateCaloriesParams are the arguments of allocate_calories.
type AllocateCaloriesParams struct {
	TargetCalories int               `json:"target_calories" description:"Daily calorie target"`
	AlreadyEaten   models.EatenItems `json:"already_eaten,omitempty" description:"Items eaten per meal slot"`
}

// SearchFoodsParams are the arguments of search_foods.
type SearchFoodsParams struct {
	Query    string `json:"query" description:"Free-text food query"`
	Limit    int    `json:"limit,omitempty" description:"Maximum number of results"`
	Category string `json:"category,omitempty" description:"Restrict to breakfast, lunch, dinner, snacks or other"`
}

func (s *Server) tools() map[string]toolHandler {
	return map[string]toolHandler{
		toolPlanMeals:        s.toolPlanMeals,
		toolAllocateCalories: s.toolAllocateCalories,
		toolSearchFoods:      s.toolSearchFoods,
	}
}

// handleMCP serves tool calls as plain JSON over HTTP.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	handler, ok := s.tools()[request.Name]
	if !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("unknown tool: %s", request.Name))
		return
	}
	s.logger.Debug("mcp tool call", zap.String("tool", request.Name))
	result, err := handler(r.Context(), &request)
	if err != nil {
		s.logger.Warn("mcp tool failed", zap.String("tool", request.Name), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, errInvalidParams) {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

var errInvalidParams = errors.New("invalid parameters")

// extractParams decodes the request arguments into target.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	data, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func jsonResult(data interface{}) (*protocol.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{Type: "text", Text: string(b)},
		},
	}, nil
}

func (s *Server) toolPlanMeals(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PlanMealsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ParsedInput == nil {
		return nil, fmt.Errorf("%w: parsed_input is required", errInvalidParams)
	}
	profile, err := decodeProfile(params.UserProfile)
	if err == nil {
		err = s.validator.Validate(profile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	result, err := s.planner.Plan(ctx, profile, *params.ParsedInput)
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}

func (s *Server) toolAllocateCalories(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AllocateCaloriesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.TargetCalories <= 0 {
		return nil, fmt.Errorf("%w: target_calories must be positive", errInvalidParams)
	}
	return jsonResult(allocator.AllocateRemaining(params.TargetCalories, params.AlreadyEaten))
}

func (s *Server) toolSearchFoods(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SearchFoodsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Query == "" {
		return nil, fmt.Errorf("%w: query is required", errInvalidParams)
	}
	resp, err := s.engine.Search(ctx, &models.SearchQuery{
		Query:    params.Query,
		Limit:    params.Limit,
		Category: params.Category,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(resp)
}
