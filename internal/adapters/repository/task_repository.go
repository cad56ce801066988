package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var taskColumns = []string{
	"id", "user_id", "date", "time", "title", "description",
	"completed", "created_at", "updated_at",
}

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query, args, err := psql.Insert("tasks").
		Columns("user_id", "date", "time", "title", "description", "completed").
		Values(task.UserID, dateArg(task.Date), task.Time, task.Title, task.Description, task.Completed).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create task: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*entities.Task, error) {
	query, args, err := psql.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get task: %w", err)
	}

	var task entities.Task
	if err := r.db.GetContext(ctx, &task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &task, nil
}

// Update writes the mutable fields. The date is never changed.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query, args, err := psql.Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("time", task.Time).
		Set("completed", task.Completed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": task.ID}).
		Where(squirrel.Eq{"user_id": task.UserID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	query, args, err := psql.Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete task: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	q := psql.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"user_id": filter.UserID})

	if filter.Date != nil {
		q = q.Where(squirrel.Eq{"date": dateArg(*filter.Date)})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": dateArg(*filter.From)})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"date": dateArg(*filter.To)})
	}
	q = q.OrderBy("date", "time", "created_at")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks: %w", err)
	}

	tasks := []*entities.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// CountByDay aggregates totals per date in [from, to).
func (r *TaskRepositoryImpl) CountByDay(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entities.DayCount, error) {
	query, args, err := psql.Select(
		"date",
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE completed) AS completed",
	).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"date": dateArg(from)}).
		Where(squirrel.Lt{"date": dateArg(to)}).
		GroupBy("date").
		OrderBy("date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count tasks: %w", err)
	}

	var counts []entities.DayCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count tasks by day: %w", err)
	}

	return counts, nil
}

// dateArg keeps dates timezone-free on the wire.
func dateArg(t time.Time) string {
	return t.Format(entities.DateLayout)
}
