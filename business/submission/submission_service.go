package submission

import (
	"context"
	"fmt"
	"strings"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/metrics"
)

// SubmissionRepository contract interface
type SubmissionRepository interface {
	CreateWithSlotReserve(ctx context.Context, submission *domain.Submission) error
	FindByID(ctx context.Context, id uint) (domain.Submission, error)
	FindPaginatedByWorker(ctx context.Context, email string, page, limit int) ([]domain.Submission, int64, error)
	FindByBuyer(ctx context.Context, email, status string) ([]domain.Submission, error)
	Approve(ctx context.Context, submission domain.Submission, note domain.Notification) error
	Reject(ctx context.Context, submission domain.Submission, note domain.Notification) error
}

type TaskRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Task, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type SubmissionService struct {
	submissionRepo SubmissionRepository
	taskRepo       TaskRepository
	userRepo       UserRepository
}

func NewSubmissionService(submissionRepo SubmissionRepository, taskRepo TaskRepository, userRepo UserRepository) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
	}
}

// Submit claims a slot on the task and records the pending submission. The
// slot is reserved now, not at approval; losing the last-slot race surfaces
// as domain.ErrNoSlotsAvailable.
func (s *SubmissionService) Submit(ctx context.Context, workerID, taskID uint, details string) (domain.Submission, error) {
	if strings.TrimSpace(details) == "" {
		return domain.Submission{}, domain.ErrEmptyDetails
	}

	worker, err := s.userRepo.FindByID(ctx, workerID)
	if err != nil {
		return domain.Submission{}, err
	}
	if worker.Role != domain.RoleWorker {
		return domain.Submission{}, domain.ErrUnauthorized
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return domain.Submission{}, err
	}

	submission := domain.Submission{
		TaskID:        task.ID,
		TaskTitle:     task.Title,
		PayableAmount: task.PayableAmount,
		WorkerID:      worker.ID,
		WorkerEmail:   worker.Email,
		WorkerName:    worker.FullName,
		BuyerEmail:    task.BuyerEmail,
		BuyerName:     task.BuyerName,
		Details:       details,
		Status:        domain.SubmissionPending,
	}

	if err := s.submissionRepo.CreateWithSlotReserve(ctx, &submission); err != nil {
		if err != domain.ErrNoSlotsAvailable {
			logger.Error("Failed to create submission", err)
		}
		return domain.Submission{}, err
	}

	metrics.SubmissionsCreated.Inc()
	return submission, nil
}

// Approve finalizes a pending submission and pays the worker the task's
// payable amount. Only the buyer who owns the task, or an admin, may call it;
// a duplicate call gets domain.ErrAlreadyFinalized and no second credit.
func (s *SubmissionService) Approve(ctx context.Context, submissionID, callerID uint) (domain.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}

	if err := s.authorize(ctx, submission, callerID); err != nil {
		return domain.Submission{}, err
	}

	note := domain.Notification{
		RecipientEmail: submission.WorkerEmail,
		Message: fmt.Sprintf("You have earned %d coins from %s for completing \"%s\"",
			submission.PayableAmount, submission.BuyerName, submission.TaskTitle),
		ActionRoute: "/dashboard/my-submissions",
	}

	if err := s.submissionRepo.Approve(ctx, submission, note); err != nil {
		if err != domain.ErrAlreadyFinalized {
			logger.Error("Failed to approve submission", err)
		}
		return domain.Submission{}, err
	}

	metrics.SubmissionsDecided.WithLabelValues(domain.SubmissionApproved).Inc()
	metrics.CoinsCredited.WithLabelValues("payout").Add(float64(submission.PayableAmount))

	submission.Status = domain.SubmissionApproved
	return submission, nil
}

// Reject finalizes a pending submission without payment and hands the slot
// back to the task.
func (s *SubmissionService) Reject(ctx context.Context, submissionID, callerID uint, reason string) (domain.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}

	if err := s.authorize(ctx, submission, callerID); err != nil {
		return domain.Submission{}, err
	}

	msg := fmt.Sprintf("Your submission for \"%s\" was rejected by %s", submission.TaskTitle, submission.BuyerName)
	if strings.TrimSpace(reason) != "" {
		msg = fmt.Sprintf("%s: %s", msg, reason)
	}

	note := domain.Notification{
		RecipientEmail: submission.WorkerEmail,
		Message:        msg,
		ActionRoute:    "/dashboard/my-submissions",
	}

	if err := s.submissionRepo.Reject(ctx, submission, note); err != nil {
		if err != domain.ErrAlreadyFinalized {
			logger.Error("Failed to reject submission", err)
		}
		return domain.Submission{}, err
	}

	metrics.SubmissionsDecided.WithLabelValues(domain.SubmissionRejected).Inc()

	submission.Status = domain.SubmissionRejected
	return submission, nil
}

func (s *SubmissionService) GetWorkerSubmissions(ctx context.Context, email string, page, limit int) ([]domain.Submission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return s.submissionRepo.FindPaginatedByWorker(ctx, email, page, limit)
}

func (s *SubmissionService) GetBuyerSubmissions(ctx context.Context, email, status string) ([]domain.Submission, error) {
	return s.submissionRepo.FindByBuyer(ctx, email, status)
}

func (s *SubmissionService) authorize(ctx context.Context, submission domain.Submission, callerID uint) error {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return err
	}

	if caller.Role == domain.RoleAdmin {
		return nil
	}
	if caller.Email != submission.BuyerEmail {
		return domain.ErrUnauthorized
	}

	return nil
}
