package task

import (
	"context"
	"math"
	"time"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

// AnalyticsTask is the trimmed task shape used in analytics listings.
type AnalyticsTask struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category,omitempty"`
	Priority      string  `json:"priority"`
	CompletedDate *string `json:"completedDate,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
}

// Trends summarizes a user's completion habits over the analytics period.
type Trends struct {
	MostProductiveCategory string  `json:"mostProductiveCategory"`
	MostCompletedDay       string  `json:"mostCompletedDay"`
	TotalCompleted         int     `json:"totalCompleted"`
	CompletionRate         float64 `json:"completionRate"`
}

// Analytics groups a user's recent, missed and upcoming tasks with trends.
type Analytics struct {
	Completed []AnalyticsTask `json:"completed"`
	Missed    []AnalyticsTask `json:"missed"`
	Due       []AnalyticsTask `json:"due"`
	Trends    Trends          `json:"trends"`
}

// Analytics reports completion statistics for the past week or month.
func (uc *UseCase) Analytics(ctx context.Context, accountID, period string) (*Analytics, error) {
	now := uc.now()
	lookback := 7 * 24 * time.Hour
	if period == "monthly" {
		lookback = 30 * 24 * time.Hour
	}
	since := now.Add(-lookback)
	until := now.Add(lookback)

	completed, err := uc.tasks.List(ctx, repository.TaskFilter{
		AccountID:       accountID,
		Status:          domain.TaskCompleted,
		CompletedAfter:  &since,
		CompletedBefore: &now,
	})
	if err != nil {
		return nil, err
	}

	missed, err := uc.tasks.List(ctx, repository.TaskFilter{
		AccountID:      accountID,
		Status:         domain.TaskOverdue,
		DeadlineBefore: &now,
	})
	if err != nil {
		return nil, err
	}

	upcoming, err := uc.tasks.List(ctx, repository.TaskFilter{
		AccountID:      accountID,
		Status:         domain.TaskInProgress,
		DeadlineAfter:  &now,
		DeadlineBefore: &until,
	})
	if err != nil {
		return nil, err
	}

	report := &Analytics{
		Completed: toAnalyticsTasks(completed, true),
		Missed:    toAnalyticsTasks(missed, false),
		Due:       toAnalyticsTasks(upcoming, false),
		Trends: Trends{
			MostProductiveCategory: mostCommonCategory(completed),
			MostCompletedDay:       mostCompletedDay(completed),
			TotalCompleted:         len(completed),
		},
	}

	if totalDue := len(completed) + len(missed); totalDue > 0 {
		rate := float64(len(completed)) / float64(totalDue) * 100
		report.Trends.CompletionRate = math.Round(rate*10) / 10
	}
	return report, nil
}

func toAnalyticsTasks(tasks []domain.Task, completed bool) []AnalyticsTask {
	out := make([]AnalyticsTask, 0, len(tasks))
	for _, t := range tasks {
		entry := AnalyticsTask{
			ID:       t.ID,
			Name:     t.Name,
			Category: t.Category,
			Priority: t.Priority,
		}
		if completed && t.CompletedAt != nil {
			date := t.CompletedAt.Format("2006-01-02")
			entry.CompletedDate = &date
		}
		if t.Deadline != nil {
			due := t.Deadline.Format("2006-01-02")
			entry.DueDate = &due
		}
		out = append(out, entry)
	}
	return out
}

func mostCommonCategory(tasks []domain.Task) string {
	counts := map[string]int{}
	best := ""
	for _, t := range tasks {
		if t.Category == "" {
			continue
		}
		counts[t.Category]++
		if best == "" || counts[t.Category] > counts[best] {
			best = t.Category
		}
	}
	return best
}

func mostCompletedDay(tasks []domain.Task) string {
	counts := map[string]int{}
	best := ""
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		day := t.CompletedAt.Format("January 02, 2006")
		counts[day]++
		if best == "" || counts[day] > counts[best] {
			best = day
		}
	}
	return best
}
