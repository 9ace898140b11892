package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

type createUserRequest struct {
	Name     string           `json:"name"`
	Diseases []domain.Disease `json:"diseases"`
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := s.svc.Users.Create(c.UserContext(), req.Name, req.Diseases)
	if err != nil {
		return err
	}
	token, err := IssueToken(s.cfg.JWTSecret, user.ID, s.tokenTTL)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	user, err := s.svc.Users.Get(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (s *Server) handleSetConditions(c *fiber.Ctx) error {
	var req struct {
		Diseases []domain.Disease `json:"diseases"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := s.svc.Users.SetDiseases(c.UserContext(), currentUser(c), req.Diseases); err != nil {
		return err
	}
	return s.handleMe(c)
}

func (s *Server) handleLogReading(c *fiber.Ctx) error {
	var req services.ReadingInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	logged, err := s.svc.Readings.Log(c.UserContext(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(logged)
}

func (s *Server) handleWeeklySummary(c *fiber.Ctx) error {
	summary, err := s.svc.Trends.WeeklySummary(c.UserContext(), currentUser(c), domain.MetricType(c.Params("metric")))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (s *Server) handleTrends(c *fiber.Ctx) error {
	report, err := s.svc.Trends.TrendReport(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *Server) handleWeeklyReport(c *fiber.Ctx) error {
	report, err := s.svc.Trends.WeeklyReport(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *Server) handleAdjustments(c *fiber.Ctx) error {
	plan, err := s.svc.Trends.Adjustments(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

func (s *Server) handleHbA1c(c *fiber.Ctx) error {
	status, err := s.svc.Trends.HbA1cStatus(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(status)
}

func (s *Server) handleWaterToday(c *fiber.Ctx) error {
	progress, err := s.svc.Trends.WaterToday(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

func (s *Server) handleCarePlan(c *fiber.Ctx) error {
	plan, err := s.svc.Trends.CarePlan(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

type analyzeFoodRequest struct {
	Description string           `json:"food_description"`
	Quantity    string           `json:"quantity"`
	Condition   domain.Condition `json:"condition"`
}

func (s *Server) handleAnalyzeFood(c *fiber.Ctx) error {
	var req analyzeFoodRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	analysis, err := s.svc.Food.Analyze(c.UserContext(), currentUser(c), req.Description, req.Quantity, req.Condition)
	if err != nil {
		return err
	}
	return c.JSON(analysis)
}

func (s *Server) handleListMedications(c *fiber.Ctx) error {
	meds, err := s.svc.Medications.ListActive(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(meds)
}

func (s *Server) handleCreateMedication(c *fiber.Ctx) error {
	var req services.MedicationInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	med, err := s.svc.Medications.Create(c.UserContext(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(med)
}

func (s *Server) handleDeactivateMedication(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Medications.Deactivate(c.UserContext(), currentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleLogIntake(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	reading, err := s.svc.Medications.LogIntake(c.UserContext(), currentUser(c), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(reading)
}
