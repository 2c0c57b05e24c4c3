package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
)

// registerPlannerValidations installs the custom tags used by planner payloads.
func registerPlannerValidations(v *validator.Validate) {
	v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.Weekday(strings.ToUpper(fl.Field().String())).Valid()
	})
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := models.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("block_kind", func(fl validator.FieldLevel) bool {
		return models.BlackoutKind(strings.ToUpper(fl.Field().String())).Valid()
	})
}

// parseDate reads a YYYY-MM-DD date as midnight in loc.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date "+raw)
	}
	return parsed, nil
}
