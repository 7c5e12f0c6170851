package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/backend/domain"
)

func (f *fixture) addTaskAt(t *testing.T, accountID, name, category, status string, completedAt, deadline *time.Time) {
	t.Helper()
	_, err := f.store.Tasks().Create(context.Background(), &domain.Task{
		AccountID:   accountID,
		Name:        name,
		Category:    category,
		Priority:    "Medium",
		Status:      status,
		CompletedAt: completedAt,
		Deadline:    deadline,
	})
	require.NoError(t, err)
}

func TestAnalyticsWeekly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 0)

	twoDaysAgo := f.now.Add(-48 * time.Hour)
	tenDaysAgo := f.now.Add(-10 * 24 * time.Hour)
	yesterday := f.now.Add(-24 * time.Hour)
	inThreeDays := f.now.Add(72 * time.Hour)

	f.addTaskAt(t, accountID, "report", "work", domain.TaskCompleted, &twoDaysAgo, nil)
	f.addTaskAt(t, accountID, "slides", "work", domain.TaskCompleted, &twoDaysAgo, nil)
	f.addTaskAt(t, accountID, "old chore", "home", domain.TaskCompleted, &tenDaysAgo, nil)
	f.addTaskAt(t, accountID, "laundry", "home", domain.TaskOverdue, nil, &yesterday)
	f.addTaskAt(t, accountID, "groceries", "home", domain.TaskInProgress, nil, &inThreeDays)

	report, err := f.uc.Analytics(ctx, accountID, "weekly")
	require.NoError(t, err)

	assert.Len(t, report.Completed, 2, "completions older than a week fall out")
	assert.Len(t, report.Missed, 1)
	assert.Len(t, report.Due, 1)

	assert.Equal(t, "work", report.Trends.MostProductiveCategory)
	assert.Equal(t, twoDaysAgo.Format("January 02, 2006"), report.Trends.MostCompletedDay)
	assert.Equal(t, 2, report.Trends.TotalCompleted)
	assert.InDelta(t, 66.7, report.Trends.CompletionRate, 0.01)
}

func TestAnalyticsMonthlyWidensWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 0)

	tenDaysAgo := f.now.Add(-10 * 24 * time.Hour)
	f.addTaskAt(t, accountID, "old chore", "home", domain.TaskCompleted, &tenDaysAgo, nil)

	weekly, err := f.uc.Analytics(ctx, accountID, "weekly")
	require.NoError(t, err)
	assert.Empty(t, weekly.Completed)

	monthly, err := f.uc.Analytics(ctx, accountID, "monthly")
	require.NoError(t, err)
	assert.Len(t, monthly.Completed, 1)
}

func TestAnalyticsEmpty(t *testing.T) {
	f := newFixture(t)
	accountID := f.addAccount(t, "alice", 0)

	report, err := f.uc.Analytics(context.Background(), accountID, "weekly")
	require.NoError(t, err)

	assert.Empty(t, report.Completed)
	assert.Zero(t, report.Trends.CompletionRate)
	assert.Empty(t, report.Trends.MostCompletedDay)
}
