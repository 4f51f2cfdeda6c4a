package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateConferenceCreate validates conference creation business rules
func (bv *BusinessValidator) ValidateConferenceCreate(req *ConferenceCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateDeadlineOrder(req.SubmissionDeadline, req.CameraReadyDeadline, req.StartDate, req.EndDate)...)

	return errors
}

// ValidateConferenceUpdate validates conference update business rules against
// the existing row; unset fields keep their current values for the ordering
// check so a partial update cannot sneak past the invariant.
func (bv *BusinessValidator) ValidateConferenceUpdate(req *ConferenceUpdateRequest, existing *models.Conference) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	submission := existing.SubmissionDeadline
	cameraReady := existing.CameraReadyDeadline
	start := existing.StartDate
	end := existing.EndDate
	if req.SubmissionDeadline != nil {
		submission = *req.SubmissionDeadline
	}
	if req.CameraReadyDeadline != nil {
		cameraReady = *req.CameraReadyDeadline
	}
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	errors = append(errors, bv.validateDeadlineOrder(submission, cameraReady, start, end)...)

	return errors
}

// validateDeadlineOrder enforces submission < camera-ready < start < end.
func (bv *BusinessValidator) validateDeadlineOrder(submission, cameraReady, start, end time.Time) ValidationErrors {
	var errors ValidationErrors

	if !submission.Before(cameraReady) {
		errors = append(errors, ValidationError{
			Field:   "submission_deadline",
			Message: "must be before the camera-ready deadline",
			Value:   submission,
			Rule:    "deadline_order",
		})
	}
	if !cameraReady.Before(start) {
		errors = append(errors, ValidationError{
			Field:   "camera_ready_deadline",
			Message: "must be before the conference start date",
			Value:   cameraReady,
			Rule:    "deadline_order",
		})
	}
	if !start.Before(end) {
		errors = append(errors, ValidationError{
			Field:   "start_date",
			Message: "must be before the conference end date",
			Value:   start,
			Rule:    "deadline_order",
		})
	}

	return errors
}

// ValidateSubmissionCreate validates paper intake against the owning
// conference's research area taxonomy.
func (bv *BusinessValidator) ValidateSubmissionCreate(req *SubmissionCreateRequest, conference *models.Conference) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateAreaPair(req.PrimaryArea, req.SecondaryArea, conference)...)

	return errors
}

// ValidateAreaPair validates a (primary, secondary) research area pair.
func (bv *BusinessValidator) ValidateAreaPair(primary, secondary string, conference *models.Conference) ValidationErrors {
	return bv.validateAreaPair(primary, secondary, conference)
}

func (bv *BusinessValidator) validateAreaPair(primary, secondary string, conference *models.Conference) ValidationErrors {
	var errors ValidationErrors

	areas := conference.ResearchAreas.Data()
	secondaries, ok := areas[primary]
	if !ok {
		errors = append(errors, ValidationError{
			Field:   "primary_area",
			Message: fmt.Sprintf("is not a research area of this conference, valid areas: %s", strings.Join(conference.PrimaryAreas(), ", ")),
			Value:   primary,
			Rule:    "research_area_pair",
		})
		return errors
	}

	for _, s := range secondaries {
		if s == secondary {
			return errors
		}
	}
	errors = append(errors, ValidationError{
		Field:   "secondary_area",
		Message: fmt.Sprintf("is not a secondary area of %q, valid areas: %s", primary, strings.Join(secondaries, ", ")),
		Value:   secondary,
		Rule:    "research_area_pair",
	})

	return errors
}

// ValidateAuthorList validates a wholesale author replacement.
func (bv *BusinessValidator) ValidateAuthorList(authors []SubmissionAuthorRequest) ValidationErrors {
	var errors ValidationErrors

	if len(authors) == 0 {
		errors = append(errors, ValidationError{
			Field:   "authors",
			Message: "at least one author is required",
			Rule:    "business_logic",
		})
		return errors
	}

	corresponding := 0
	for i, a := range authors {
		errors = append(errors, bv.Validate(&a)...)
		if a.IsCorresponding {
			corresponding++
		}
		if strings.TrimSpace(a.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("authors[%d].name", i),
				Message: "cannot be blank",
				Rule:    "business_logic",
			})
		}
	}

	if corresponding != 1 {
		errors = append(errors, ValidationError{
			Field:   "authors",
			Message: "exactly one corresponding author is required",
			Value:   corresponding,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-200 characters)
	bv.validate.RegisterValidation("conference_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Research areas must be non-empty with at least one secondary per primary
	bv.validate.RegisterValidation("research_areas", func(fl validator.FieldLevel) bool {
		areas, ok := fl.Field().Interface().(models.ResearchAreas)
		if !ok || len(areas) == 0 {
			return false
		}
		for name, secondaries := range areas {
			if strings.TrimSpace(name) == "" || len(secondaries) == 0 {
				return false
			}
		}
		return true
	})

	// Review score validation (1-10)
	bv.validate.RegisterValidation("overall_score", func(fl validator.FieldLevel) bool {
		score := fl.Field().Int()
		return score >= 1 && score <= 10
	})

	// Review evaluation text must carry at least 50 characters
	bv.validate.RegisterValidation("evaluation_length", func(fl validator.FieldLevel) bool {
		return len(strings.TrimSpace(fl.Field().String())) >= 50
	})

	// recommendation validation
	bv.validate.RegisterValidation("recommendation", func(fl validator.FieldLevel) bool {
		rec := models.Recommendation(fl.Field().String())
		switch rec {
		case models.RecommendAccepted, models.RecommendRevision, models.RecommendRejected:
			return true
		}
		return false
	})

	// decision validation
	bv.validate.RegisterValidation("review_decision", func(fl validator.FieldLevel) bool {
		d := models.ReviewDecision(fl.Field().String())
		switch d {
		case models.DecisionAccept, models.DecisionMajorRevision, models.DecisionMinorRevision, models.DecisionReject:
			return true
		}
		return false
	})

	// conference role validation
	bv.validate.RegisterValidation("conference_role", func(fl validator.FieldLevel) bool {
		role := models.ConferenceRole(fl.Field().String())
		switch role {
		case models.RoleMainChair, models.RoleChair, models.RoleReviewer:
			return true
		}
		return false
	})
}
