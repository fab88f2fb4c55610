package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/zakopshq/zakops/pkg/deal"
)

// ErrorResponse is the JSON error envelope for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// transitionRequest is the body of POST /deals/:id/transition.
type transitionRequest struct {
	To deal.Stage `json:"to"`
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) handleListDeals(c *fiber.Ctx) error {
	stage := deal.Stage(c.Query("stage"))
	if stage != "" && deal.ParseStage(string(stage)) == deal.StageUnknown {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unknown stage: " + string(stage)})
	}
	return c.JSON(s.store.ListDeals(stage, c.Query("q")))
}

func (s *Server) handleGetDeal(c *fiber.Ctx) error {
	d, ok := s.store.GetDeal(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "deal not found"})
	}
	return c.JSON(d)
}

func (s *Server) handleTransitionDeal(c *fiber.Ctx) error {
	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if deal.ParseStage(string(req.To)) == deal.StageUnknown {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unknown stage: " + string(req.To)})
	}

	d, err := s.store.TransitionDeal(c.Params("id"), req.To)
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "deal not found"})
	case errors.Is(err, ErrIllegalTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "transition failed"})
	}

	s.logger.Info("deal transitioned",
		"id", d.ID,
		"stage", d.Stage,
	)
	return c.JSON(d)
}

func (s *Server) handleDeleteDeal(c *fiber.Ctx) error {
	if err := s.store.DeleteDeal(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "deal not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListQuarantine(c *fiber.Ctx) error {
	return c.JSON(s.store.ListQuarantine())
}

func (s *Server) handleApproveQuarantine(c *fiber.Ctx) error {
	d, err := s.store.ApproveQuarantine(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "quarantine item not found"})
	}
	s.logger.Info("quarantine item approved",
		"quarantine_id", c.Params("id"),
		"deal_id", d.ID,
	)
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (s *Server) handleRejectQuarantine(c *fiber.Ctx) error {
	if err := s.store.RejectQuarantine(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "quarantine item not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleOnboarding(c *fiber.Ctx) error {
	return c.JSON(s.store.Onboarding())
}

func (s *Server) handleCompleteOnboardingStep(c *fiber.Ctx) error {
	state, err := s.store.CompleteOnboardingStep(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "onboarding step not found"})
	}
	return c.JSON(state)
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query parameter q is required"})
	}
	results := s.store.Search(query)
	if results == nil {
		results = []deal.SearchResult{}
	}
	return c.JSON(results)
}
