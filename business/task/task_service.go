package task

import (
	"context"
	"time"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/metrics"
)

// TaskRepository contract interface
type TaskRepository interface {
	CreateWithEscrow(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uint) (domain.Task, error)
	FindByBuyerEmail(ctx context.Context, email string) ([]domain.Task, error)
	FindAvailable(ctx context.Context, page, limit int) ([]domain.Task, int64, error)
	FindAll(ctx context.Context) ([]domain.Task, error)
	UpdatePatch(ctx context.Context, id uint, patch domain.TaskPatch) error
	DeleteWithRefund(ctx context.Context, id uint) (int, error)
}

// UserRepository is the slice of the user store the task service needs.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type TaskService struct {
	taskRepo TaskRepository
	userRepo UserRepository
}

func NewTaskService(taskRepo TaskRepository, userRepo UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// TaskInput is the creation payload. RequiredWorkers and PayableAmount fix
// the escrow and are immutable afterwards.
type TaskInput struct {
	Title           string
	Detail          string
	RequiredWorkers int
	PayableAmount   int
	CompletionDate  time.Time
	SubmissionInfo  string
	ImageURL        string
}

// CreateTask escrows required_workers * payable_amount coins from the buyer
// and persists the task. An uncovered escrow surfaces as
// domain.ErrInsufficientCoin, a recoverable outcome the handler turns into
// the purchase prompt.
func (s *TaskService) CreateTask(ctx context.Context, buyerID uint, input TaskInput) (domain.Task, error) {
	buyer, err := s.userRepo.FindByID(ctx, buyerID)
	if err != nil {
		return domain.Task{}, err
	}
	if buyer.Role != domain.RoleBuyer && buyer.Role != domain.RoleAdmin {
		return domain.Task{}, domain.ErrUnauthorized
	}

	if input.RequiredWorkers < 0 || input.PayableAmount <= 0 {
		return domain.Task{}, domain.ErrInvalidAmount
	}

	task := domain.Task{
		Title:           input.Title,
		Detail:          input.Detail,
		BuyerID:         buyer.ID,
		BuyerEmail:      buyer.Email,
		BuyerName:       buyer.FullName,
		RequiredWorkers: input.RequiredWorkers,
		PayableAmount:   input.PayableAmount,
		CompletionDate:  input.CompletionDate,
		SubmissionInfo:  input.SubmissionInfo,
		ImageURL:        input.ImageURL,
	}

	if err := s.taskRepo.CreateWithEscrow(ctx, &task); err != nil {
		if err != domain.ErrInsufficientCoin {
			logger.Error("Failed to create task", err)
		}
		return domain.Task{}, err
	}

	metrics.TasksCreated.Inc()
	return task, nil
}

// EditTask mutates the non-financial fields only. The handler rejects any
// attempt to patch required_workers or payable_amount before it gets here;
// financialPatch repeats the check at the service boundary.
func (s *TaskService) EditTask(ctx context.Context, taskID, callerID uint, patch domain.TaskPatch, financialPatch bool) (domain.Task, error) {
	if financialPatch {
		return domain.Task{}, domain.ErrImmutableField
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.authorize(ctx, task, callerID); err != nil {
		return domain.Task{}, err
	}

	if patch.Title == "" {
		patch.Title = task.Title
	}
	if patch.Detail == "" {
		patch.Detail = task.Detail
	}
	if patch.SubmissionInfo == "" {
		patch.SubmissionInfo = task.SubmissionInfo
	}

	if err := s.taskRepo.UpdatePatch(ctx, taskID, patch); err != nil {
		logger.Error("Failed to update task", err)
		return domain.Task{}, err
	}

	return s.taskRepo.FindByID(ctx, taskID)
}

// DeleteTask removes a task and refunds the unused escrow,
// remaining_required_workers * payable_amount, to the buyer.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, callerID uint) (refund int, err error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return 0, err
	}

	if err := s.authorize(ctx, task, callerID); err != nil {
		return 0, err
	}

	refund, err = s.taskRepo.DeleteWithRefund(ctx, taskID)
	if err != nil {
		logger.Error("Failed to delete task", err)
		return 0, err
	}

	return refund, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID uint) (domain.Task, error) {
	return s.taskRepo.FindByID(ctx, taskID)
}

func (s *TaskService) GetTasksByBuyer(ctx context.Context, email string) ([]domain.Task, error) {
	return s.taskRepo.FindByBuyerEmail(ctx, email)
}

func (s *TaskService) GetAvailableTasks(ctx context.Context, page, limit int) ([]domain.Task, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return s.taskRepo.FindAvailable(ctx, page, limit)
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	return s.taskRepo.FindAll(ctx)
}

// authorize allows the owning buyer or an admin.
func (s *TaskService) authorize(ctx context.Context, task domain.Task, callerID uint) error {
	if task.BuyerID == callerID {
		return nil
	}

	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin {
		return domain.ErrUnauthorized
	}

	return nil
}
