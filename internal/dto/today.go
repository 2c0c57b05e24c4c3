package dto

import "github.com/noah-isme/attendance-planner-api/internal/models"

// TodaySummary is the day's counters with the optional risk digest.
type TodaySummary struct {
	Total       int                 `json:"total"`
	Completed   int                 `json:"completed"`
	Remaining   int                 `json:"remaining"`
	Attended    int                 `json:"attended"`
	RiskLevel   models.RiskLevel    `json:"riskLevel,omitempty"`
	RiskMessage string              `json:"riskMessage,omitempty"`
	Risk        *models.RiskSummary `json:"risk,omitempty"`
}

// TodayResponse is everything the today view renders.
type TodayResponse struct {
	Date            string                            `json:"date"`
	Instances       []models.ClassInstance            `json:"instances"`
	Summary         TodaySummary                      `json:"summary"`
	Meta            map[string]models.SubjectRiskMeta `json:"meta"`
	EmptyReason     models.EmptyReason                `json:"emptyReason"`
	EmptyReasonName string                            `json:"emptyReasonName,omitempty"`
}
