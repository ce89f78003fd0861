package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"family-chores-go/internal/domain/categories"
	"family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/identity"
	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
)

// CategoryReader resolves category references. categories.Service satisfies it.
type CategoryReader interface {
	GetCategoryByID(ctx context.Context, userID, id string) (*categories.Category, bool, error)
}

// MemberReader resolves assignee references. family.Service satisfies it.
type MemberReader interface {
	GetFamilyMemberByID(ctx context.Context, id string) (*family.FamilyMember, bool, error)
}

type Options struct {
	Scope      identity.Scope
	Categories CategoryReader
	Members    MemberReader
	Publisher  Publisher
	Now        func() time.Time
}

type Service struct {
	repo       Repository
	scope      identity.Scope
	categories CategoryReader
	members    MemberReader
	publisher  Publisher
	now        func() time.Time
	log        logger.Logger
}

func NewService(repo Repository, opts Options, log logger.Logger) *Service {
	if opts.Publisher == nil {
		opts.Publisher = noopPublisher{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:       repo,
		scope:      opts.Scope,
		categories: opts.Categories,
		members:    opts.Members,
		publisher:  opts.Publisher,
		now:        opts.Now,
		log:        logger.OrNop(log).With("component", "tasks"),
	}
}

func (s *Service) GetTasks(ctx context.Context, userID string) ([]Task, error) {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListTasks(ctx, s.ownerFilter(userID))
	if err != nil {
		s.log.InternalError("tasks.list: list tasks failed", err, "user_id", userID)
		return nil, err
	}
	return items, nil
}

func (s *Service) GetTaskByID(ctx context.Context, userID, id string) (*Task, bool, error) {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, false, err
	}

	task, err := s.find(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, false, nil
		}
		s.log.InternalError("tasks.get: get task failed", err, "task_id", id)
		return nil, false, err
	}
	return task, true, nil
}

func (s *Service) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*Task, error) {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	status := input.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.checkCategory(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, input.AssignedTo); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: input.Description,
		Status:      status,
		CategoryID:  input.CategoryID,
		AssignedTo:  input.AssignedTo,
		Deadline:    input.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if userID != "" {
		owner := userID
		task.UserID = &owner
	}

	if err := s.repo.CreateTask(ctx, &task); err != nil {
		s.log.InternalError("tasks.create: create task failed", err, "user_id", userID)
		return nil, err
	}
	s.publish(ctx, ActionCreated, userID, &task)
	return &task, nil
}

func (s *Service) UpdateTask(ctx context.Context, userID, id string, input UpdateTaskInput) (*Task, error) {
	if input.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, err
	}

	task, err := s.find(ctx, userID, id)
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			s.log.InternalError("tasks.update: get task failed", err, "task_id", id)
		}
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.ClearDescription {
		task.Description = nil
	} else if input.Description != nil {
		task.Description = input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}
	if input.ClearAssignee {
		task.AssignedTo = nil
	} else if input.AssignedTo != nil {
		if err := s.checkAssignee(ctx, input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}

	return s.save(ctx, userID, task, "tasks.update")
}

// AdvanceStatus moves the task one step along the quick-toggle cycle.
func (s *Service) AdvanceStatus(ctx context.Context, userID, id string) (*Task, error) {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, err
	}

	task, err := s.find(ctx, userID, id)
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			s.log.InternalError("tasks.advance: get task failed", err, "task_id", id)
		}
		return nil, err
	}

	task.Status = task.Status.Next()
	return s.save(ctx, userID, task, "tasks.advance")
}

// DeleteTask is a no-op for ids that do not exist or are not visible.
func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return err
	}

	if s.scope == identity.ScopeOwner {
		if _, err := s.find(ctx, userID, id); err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				return nil
			}
			s.log.InternalError("tasks.delete: get task failed", err, "task_id", id)
			return err
		}
	}

	removed, err := s.repo.DeleteTask(ctx, id)
	if err != nil {
		s.log.InternalError("tasks.delete: delete task failed", err, "task_id", id)
		return err
	}
	if removed {
		s.publish(ctx, ActionDeleted, userID, &Task{ID: id})
	}
	return nil
}

func (s *Service) save(ctx context.Context, userID string, task *Task, op string) (*Task, error) {
	task.UpdatedAt = s.nextUpdatedAt(*task)
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			s.log.InternalError(op+": update task failed", err, "task_id", task.ID)
		}
		return nil, err
	}
	s.publish(ctx, ActionUpdated, userID, task)
	return task, nil
}

// nextUpdatedAt is now, unless the clock is behind the stored timestamps.
func (s *Service) nextUpdatedAt(task Task) time.Time {
	next := s.now().UTC()
	if next.Before(task.UpdatedAt) {
		next = task.UpdatedAt
	}
	if next.Before(task.CreatedAt) {
		next = task.CreatedAt
	}
	return next
}

func (s *Service) find(ctx context.Context, userID, id string) (*Task, error) {
	task, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.scope == identity.ScopeOwner && !task.OwnedBy(userID) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *Service) ownerFilter(userID string) *string {
	if s.scope != identity.ScopeOwner {
		return nil
	}
	return &userID
}

func (s *Service) checkCategory(ctx context.Context, userID string, id *string) error {
	if id == nil || s.categories == nil {
		return nil
	}
	_, ok, err := s.categories.GetCategoryByID(ctx, userID, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Service) checkAssignee(ctx context.Context, id *string) error {
	if id == nil || s.members == nil {
		return nil
	}
	_, ok, err := s.members.GetFamilyMemberByID(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAssigneeNotFound
	}
	return nil
}

func (s *Service) publish(ctx context.Context, action Action, userID string, task *Task) {
	event := Event{
		Action:     action,
		TaskID:     task.ID,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
	}
	if action != ActionDeleted {
		snapshot := *task
		event.Task = &snapshot
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.InternalError("tasks.publish: publish event failed", err, "task_id", task.ID, "action", string(action))
	}
}
