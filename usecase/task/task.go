package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

// CompletionResult reports the account and pet state after a task status
// change, mirroring what the client renders after completing a task.
type CompletionResult struct {
	XP          int     `json:"xp"`
	Level       int     `json:"level"`
	Coins       int     `json:"coins"`
	Health      float64 `json:"health"`
	LeveledUp   bool    `json:"leveled_up,omitempty"`
	RemoveHeart bool    `json:"remove_heart,omitempty"`
	TaskID      string  `json:"task_id"`
	TaskStatus  string  `json:"task_status"`
}

// UseCase owns the task ledger and applies rewards to account and pet state.
type UseCase struct {
	tasks    repository.TaskRepository
	accounts repository.AccountRepository
	pets     repository.PetRepository
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	tasks repository.TaskRepository,
	accounts repository.AccountRepository,
	pets repository.PetRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		accounts: accounts,
		pets:     pets,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

// Get returns a task owned by the account; foreign tasks read as not found.
func (uc *UseCase) Get(ctx context.Context, accountID, taskID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AccountID != accountID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task name is required")
	}
	if task.Status == "" {
		task.Status = domain.TaskInProgress
	}
	return uc.tasks.Create(ctx, task)
}

func (uc *UseCase) Update(ctx context.Context, accountID string, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	existing, err := uc.Get(ctx, accountID, task.ID)
	if err != nil {
		return nil, err
	}

	// Status transitions with rewards go through Complete/MarkIncomplete.
	task.AccountID = existing.AccountID
	task.Status = existing.Status
	task.CompletedAt = existing.CompletedAt
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, accountID, taskID string) error {
	if _, err := uc.Get(ctx, accountID, taskID); err != nil {
		return err
	}
	return uc.tasks.Delete(ctx, taskID)
}

// Complete marks the task done and pays out XP and coins by priority. The pet
// also gains one heart.
func (uc *UseCase) Complete(ctx context.Context, accountID, taskID string) (*CompletionResult, error) {
	task, err := uc.Get(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task already completed")
	}

	completedAt := uc.now()
	task.Status = domain.TaskCompleted
	task.CompletedAt = &completedAt
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	reward := domain.RewardFor(task.Priority)

	coins, err := uc.accounts.AdjustCoins(ctx, accountID, reward.Coins)
	if err != nil {
		return nil, err
	}

	pet, err := uc.pets.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	leveledUp := pet.GainXP(reward.XP)
	pet.IncreaseHealth(1.0)
	if err := uc.pets.Update(ctx, pet); err != nil {
		return nil, err
	}

	uc.logger.Info("task completed",
		zap.String("task_id", task.ID),
		zap.String("priority", task.Priority),
		zap.Int("coin_gain", reward.Coins),
		zap.Int("xp_gain", reward.XP))

	return &CompletionResult{
		XP:         pet.XP,
		Level:      pet.Level,
		Coins:      coins,
		Health:     pet.Health,
		LeveledUp:  leveledUp,
		TaskID:     task.ID,
		TaskStatus: task.Status,
	}, nil
}

// MarkIncomplete reverts a completed task and claws back its reward, flooring
// coins and XP at zero.
func (uc *UseCase) MarkIncomplete(ctx context.Context, accountID, taskID string) (*CompletionResult, error) {
	task, err := uc.Get(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsCompleted() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task is not completed")
	}

	task.Status = domain.TaskInProgress
	task.CompletedAt = nil
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	reward := domain.RewardFor(task.Priority)

	coins, err := uc.accounts.AdjustCoins(ctx, accountID, -reward.Coins)
	if err != nil {
		return nil, err
	}

	pet, err := uc.pets.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	pet.LoseXP(reward.XP)
	if err := uc.pets.Update(ctx, pet); err != nil {
		return nil, err
	}

	return &CompletionResult{
		XP:         pet.XP,
		Level:      pet.Level,
		Coins:      coins,
		Health:     pet.Health,
		TaskID:     task.ID,
		TaskStatus: task.Status,
	}, nil
}
