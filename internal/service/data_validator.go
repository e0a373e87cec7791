// Package service provides the offline training workflow.
package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/win-predictor/internal/models"
)

// DataValidator validates match and delivery records before a dataset build
type DataValidator struct {
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		logger:   logger,
	}
}

// ValidateMatch validates match data for required fields and constraints
func (v *DataValidator) ValidateMatch(match *models.MatchRecord) []string {
	errors := v.structErrors(match)

	if match.Team1 != "" && strings.EqualFold(strings.TrimSpace(match.Team1), strings.TrimSpace(match.Team2)) {
		errors = append(errors, fmt.Sprintf("team1 and team2 are both %q", match.Team1))
	}

	if match.Winner != "" && match.Winner != match.Team1 && match.Winner != match.Team2 {
		errors = append(errors, fmt.Sprintf("winner %q did not play", match.Winner))
	}

	return errors
}

// ValidateDelivery validates delivery data for required fields and constraints
func (v *DataValidator) ValidateDelivery(delivery *models.DeliveryRecord) []string {
	errors := v.structErrors(delivery)

	if delivery.BattingTeam != "" && delivery.BattingTeam == delivery.BowlingTeam {
		errors = append(errors, fmt.Sprintf("batting and bowling team are both %q", delivery.BattingTeam))
	}

	return errors
}

// FilterMatches returns the matches that pass validation and the number rejected
func (v *DataValidator) FilterMatches(matches []models.MatchRecord) ([]models.MatchRecord, int) {
	valid := make([]models.MatchRecord, 0, len(matches))
	for i := range matches {
		if errs := v.ValidateMatch(&matches[i]); len(errs) > 0 {
			v.logger.WithFields(logrus.Fields{
				"match_id": matches[i].ID,
				"errors":   errs,
			}).Debug("Skipping invalid match record")
			continue
		}
		valid = append(valid, matches[i])
	}
	return valid, len(matches) - len(valid)
}

// FilterDeliveries returns the deliveries that pass validation and the number rejected
func (v *DataValidator) FilterDeliveries(deliveries []models.DeliveryRecord) ([]models.DeliveryRecord, int) {
	valid := make([]models.DeliveryRecord, 0, len(deliveries))
	for i := range deliveries {
		if errs := v.ValidateDelivery(&deliveries[i]); len(errs) > 0 {
			v.logger.WithFields(logrus.Fields{
				"match_id": deliveries[i].MatchID,
				"errors":   errs,
			}).Debug("Skipping invalid delivery record")
			continue
		}
		valid = append(valid, deliveries[i])
	}
	return valid, len(deliveries) - len(valid)
}

func (v *DataValidator) structErrors(s interface{}) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	errors := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		errors = append(errors, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errors
}
