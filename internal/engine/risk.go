package engine

import (
	"math"
	"sort"
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

// DefaultWarningSafeSkips is the safe-skip budget at or below which the day is a WARNING.
const DefaultWarningSafeSkips = 2

// ratioEpsilon absorbs float error in total*percent/100 before taking the ceiling.
const ratioEpsilon = 1e-9

// RiskPolicy tunes cross-subject aggregation.
type RiskPolicy struct {
	WarningSafeSkips int
}

// DefaultRiskPolicy returns the standard aggregation thresholds.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{WarningSafeSkips: DefaultWarningSafeSkips}
}

// SubjectRisk pairs a subject with its computed risk.
type SubjectRisk struct {
	SubjectID   string
	SubjectName string
	Meta        models.SubjectRiskMeta
}

// RequiredClasses is the number of whole classes needed to meet minPercent of total.
func RequiredClasses(total int, minPercent float64) int {
	if total <= 0 || minPercent <= 0 {
		return 0
	}
	if minPercent > 100 {
		minPercent = 100
	}
	return int(math.Ceil(float64(total)*minPercent/100 - ratioEpsilon))
}

// AttendancePercentage rounds attended/held to a whole percent, capped at 100.
// Nothing held yet reads as 100.
func AttendancePercentage(attended, held int) int {
	if held <= 0 {
		return 100
	}
	pct := int(math.Round(100 * float64(attended) / float64(held)))
	if pct > 100 {
		return 100
	}
	return pct
}

// IsHeld reports whether the instance has started at now.
func IsHeld(instance models.ClassInstance, now time.Time) bool {
	return !instance.StartTime.After(now)
}

// ConsecutiveAbsences counts the run of ABSENT instances ending at the most recent
// held instance. PRESENT and EXCUSED both end the run.
func ConsecutiveAbsences(now time.Time, instances []models.ClassInstance) int {
	held := make([]models.ClassInstance, 0, len(instances))
	for _, instance := range instances {
		if IsHeld(instance, now) {
			held = append(held, instance)
		}
	}
	sort.SliceStable(held, func(i, j int) bool {
		return held[i].StartTime.After(held[j].StartTime)
	})

	streak := 0
	for _, instance := range held {
		if instance.Status != models.AttendanceStatusAbsent {
			break
		}
		streak++
	}
	return streak
}

// ComputeSubjectRisk derives a subject's risk from all of its instances in the semester.
func ComputeSubjectRisk(now time.Time, minPercent float64, instances []models.ClassInstance) models.SubjectRiskMeta {
	total := len(instances)
	held, attended, remaining := 0, 0, 0
	for _, instance := range instances {
		if !IsHeld(instance, now) {
			remaining++
			continue
		}
		held++
		if instance.Status.Attended() {
			attended++
		}
	}

	required := RequiredClasses(total, minPercent)
	safeSkips := attended + remaining - required
	if safeSkips < 0 {
		safeSkips = 0
	}

	return models.SubjectRiskMeta{
		AttendancePercentage: AttendancePercentage(attended, held),
		ConsecutiveAbsences:  ConsecutiveAbsences(now, instances),
		SafeSkips:            safeSkips,
		IsCritical:           safeSkips <= 0,
		RequiredClasses:      required,
		TotalScheduled:       total,
	}
}

// AggregateRisk grades a day from its subjects' risk. Subjects are expected in the
// order they first appear in the day; ties on the minimum go to the earliest. It
// returns nil when there are no subjects.
func AggregateRisk(subjects []SubjectRisk, policy RiskPolicy) *models.RiskSummary {
	if len(subjects) == 0 {
		return nil
	}

	critical := 0
	tightest := subjects[0]
	for _, subject := range subjects {
		if subject.Meta.IsCritical {
			critical++
		}
		if subject.Meta.SafeSkips < tightest.Meta.SafeSkips {
			tightest = subject
		}
	}

	switch {
	case critical > 0:
		return &models.RiskSummary{Level: models.RiskLevelCritical, Count: critical}
	case tightest.Meta.SafeSkips <= policy.WarningSafeSkips:
		return &models.RiskSummary{
			Level:       models.RiskLevelWarning,
			SubjectID:   tightest.SubjectID,
			SubjectName: tightest.SubjectName,
			Count:       tightest.Meta.SafeSkips,
		}
	default:
		return &models.RiskSummary{
			Level:       models.RiskLevelGood,
			SubjectID:   tightest.SubjectID,
			SubjectName: tightest.SubjectName,
			Count:       tightest.Meta.SafeSkips,
		}
	}
}

// SubjectOrder returns the distinct subject ids in order of first appearance.
func SubjectOrder(instances []models.ClassInstance) []string {
	seen := make(map[string]struct{}, len(instances))
	order := make([]string, 0, len(instances))
	for _, instance := range instances {
		if _, ok := seen[instance.SubjectID]; ok {
			continue
		}
		seen[instance.SubjectID] = struct{}{}
		order = append(order, instance.SubjectID)
	}
	return order
}

// GroupBySubject buckets instances by subject id.
func GroupBySubject(instances []models.ClassInstance) map[string][]models.ClassInstance {
	groups := make(map[string][]models.ClassInstance)
	for _, instance := range instances {
		groups[instance.SubjectID] = append(groups[instance.SubjectID], instance)
	}
	return groups
}

// ComputeDayRisk computes per-subject risk for the subjects appearing in today and
// aggregates it. semesterInstances must hold every semester instance of those subjects.
func ComputeDayRisk(now time.Time, minPercent float64, today, semesterInstances []models.ClassInstance, policy RiskPolicy) (map[string]models.SubjectRiskMeta, *models.RiskSummary) {
	order := SubjectOrder(today)
	if len(order) == 0 {
		return map[string]models.SubjectRiskMeta{}, nil
	}

	names := make(map[string]string, len(order))
	for _, instance := range today {
		if _, ok := names[instance.SubjectID]; !ok {
			names[instance.SubjectID] = instance.SubjectName
		}
	}

	groups := GroupBySubject(semesterInstances)
	meta := make(map[string]models.SubjectRiskMeta, len(order))
	subjects := make([]SubjectRisk, 0, len(order))
	for _, subjectID := range order {
		risk := ComputeSubjectRisk(now, minPercent, groups[subjectID])
		meta[subjectID] = risk
		name := names[subjectID]
		if name == "" {
			name = "Subject"
		}
		subjects = append(subjects, SubjectRisk{SubjectID: subjectID, SubjectName: name, Meta: risk})
	}
	return meta, AggregateRisk(subjects, policy)
}
