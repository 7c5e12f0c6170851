package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, account_id, name, category, deadline, priority, status, completed_at, notify, created_at, updated_at
	FROM tasks
	WHERE id = $1
	`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT id, account_id, name, category, deadline, priority, status, completed_at, notify, created_at, updated_at
	FROM tasks
	WHERE ($1 = '' OR account_id = $1)
	  AND ($2 = '' OR status = $2)
	  AND (cardinality($3::text[]) = 0 OR status = ANY($3::text[]))
	  AND ($4::timestamptz IS NULL OR completed_at >= $4)
	  AND ($5::timestamptz IS NULL OR completed_at <= $5)
	  AND ($6::timestamptz IS NULL OR deadline >= $6)
	  AND ($7::timestamptz IS NULL OR deadline <= $7)
	ORDER BY created_at DESC
	LIMIT $8 OFFSET $9
	`
	statuses := filter.Statuses
	if statuses == nil {
		statuses = []string{}
	}

	rows, err := r.pool.Query(ctx, query,
		filter.AccountID,
		filter.Status,
		statuses,
		nullTime(filter.CompletedAfter),
		nullTime(filter.CompletedBefore),
		nullTime(filter.DeadlineAfter),
		nullTime(filter.DeadlineBefore),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.TaskInProgress
	}

	const query = `
	INSERT INTO tasks (id, account_id, name, category, deadline, priority, status, completed_at, notify)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.AccountID,
		task.Name,
		task.Category,
		nullTime(task.Deadline),
		task.Priority,
		task.Status,
		nullTime(task.CompletedAt),
		task.Notify,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET name = $2,
		category = $3,
		deadline = $4,
		priority = $5,
		status = $6,
		completed_at = $7,
		notify = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Name,
		task.Category,
		nullTime(task.Deadline),
		task.Priority,
		task.Status,
		nullTime(task.CompletedAt),
		task.Notify,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountCompleted(ctx context.Context, accountIDs []string, priority string, from, to time.Time) (int, error) {
	if len(accountIDs) == 0 {
		return 0, nil
	}

	const query = `
	SELECT COUNT(*)
	FROM tasks
	WHERE account_id = ANY($1::text[])
	  AND status = 'completed'
	  AND LOWER(priority) = LOWER($2)
	  AND completed_at >= $3
	  AND completed_at <= $4
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, accountIDs, priority, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) CompletionCounts(ctx context.Context, from, to time.Time) ([]repository.CompletionCount, error) {
	const query = `
	SELECT t.account_id, a.username, COUNT(*) AS completed
	FROM tasks t
	JOIN accounts a ON a.id = t.account_id
	WHERE t.status = 'completed'
	  AND t.completed_at >= $1
	  AND t.completed_at <= $2
	GROUP BY t.account_id, a.username
	ORDER BY completed DESC, t.account_id ASC
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []repository.CompletionCount
	for rows.Next() {
		var c repository.CompletionCount
		if err := rows.Scan(&c.AccountID, &c.Username, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var (
		category    *string
		deadline    *time.Time
		completedAt *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.AccountID,
		&task.Name,
		&category,
		&deadline,
		&task.Priority,
		&task.Status,
		&completedAt,
		&task.Notify,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if category != nil {
		task.Category = *category
	}
	task.Deadline = deadline
	task.CompletedAt = completedAt
	return &task, nil
}
