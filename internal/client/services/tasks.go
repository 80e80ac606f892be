package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"duet/internal/client/api"
	"duet/internal/client/models"
	"duet/internal/logging"
)

// TaskService maintains the two local task lists (active, completed) for the
// household currently selected, kept approximately fresh by fixed-interval
// polling and reconciled from the authoritative backend response after every
// mutation.
//
// The service is inert until Start is called with a household id: both
// lists are empty and no network activity happens. Stop (or cancellation of
// the Start context) ends polling and empties the lists again.
//
// Mutation contract: the backend call happens first; local state is patched
// only from its response, never computed client-side. A failed mutation
// leaves prior state untouched. Poll failures are logged and keep existing
// state; stale-but-present data beats a blank list.
//
// A poll landing between a mutation's request and response can overwrite
// the mutation's reconciliation, or vice versa. Last writer wins; there is
// no ordering token. Accepted limitation of the fixed-interval design.
type TaskService interface {
	Start(ctx context.Context, householdID string)
	Stop()
	Refresh(ctx context.Context) error
	Nudge()

	Active() []models.Task
	Completed() []models.Task

	Add(ctx context.Context, title string) (*models.Task, error)
	Claim(ctx context.Context, taskID string) error
	Unclaim(ctx context.Context, taskID string) error
	Complete(ctx context.Context, taskID string) error
	Uncomplete(ctx context.Context, taskID string) error
	Delete(ctx context.Context, taskID string) error
}

type taskService struct {
	client   api.API
	log      logging.Logger
	interval time.Duration

	mu          sync.RWMutex
	householdID string
	active      []models.Task
	completed   []models.Task

	running bool
	stopCh  chan struct{}
	stopped chan struct{}
	nudgeCh chan struct{}
}

// NewTaskService constructs a TaskService polling at the given interval.
func NewTaskService(client api.API, log logging.Logger, interval time.Duration) TaskService {
	return &taskService{
		client:   client,
		log:      log,
		interval: interval,
		nudgeCh:  make(chan struct{}, 1),
	}
}

// Start activates polling for the given household: one immediate combined
// fetch, then one per interval until Stop or ctx cancellation. Calling Start
// while already running for the same household is a no-op; for a different
// household the poller is restarted.
func (s *taskService) Start(ctx context.Context, householdID string) {
	if householdID == "" {
		return
	}

	s.mu.Lock()
	if s.running && s.householdID == householdID {
		s.mu.Unlock()
		return
	}
	restart := s.running
	s.mu.Unlock()

	if restart {
		s.Stop()
	}

	s.mu.Lock()
	s.householdID = householdID
	s.running = true
	s.stopCh = make(chan struct{})
	s.stopped = make(chan struct{})
	s.mu.Unlock()

	go s.poll(ctx)
}

func (s *taskService) poll(ctx context.Context) {
	defer close(s.stopped)

	if err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "task fetch failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-s.nudgeCh:
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}

		if err := s.Refresh(ctx); err != nil {
			s.log.Warn(ctx, "task poll failed", "error", err)
		}
	}
}

// Stop ends polling and returns the service to its inert state with empty
// lists. Safe to call when not running.
func (s *taskService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, stopped := s.stopCh, s.stopped
	s.mu.Unlock()

	close(stopCh)
	<-stopped

	s.mu.Lock()
	s.householdID = ""
	s.active = nil
	s.completed = nil
	s.mu.Unlock()
}

// Nudge requests an immediate refresh from the poller without waiting for
// the next tick. Used by the push listener. Coalesces when one is already
// pending.
func (s *taskService) Nudge() {
	select {
	case s.nudgeCh <- struct{}{}:
	default:
	}
}

// Refresh performs the combined fetch of both lists. Both are replaced only
// when both fetches succeed.
func (s *taskService) Refresh(ctx context.Context) error {
	s.mu.RLock()
	householdID := s.householdID
	s.mu.RUnlock()
	if householdID == "" {
		return nil
	}

	active, err := s.client.Tasks(ctx)
	if err != nil {
		return err
	}
	completed, err := s.client.CompletedTasks(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.active = active
	s.completed = completed
	s.mu.Unlock()
	return nil
}

func (s *taskService) Active() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Task(nil), s.active...)
}

func (s *taskService) Completed() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Task(nil), s.completed...)
}

// Add creates a task and prepends the returned task to the active list.
func (s *taskService) Add(ctx context.Context, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	task, err := s.client.CreateTask(ctx, title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active = append([]models.Task{*task}, s.active...)
	s.mu.Unlock()
	return task, nil
}

// Claim marks intent to do a task. The server's returned task, carrying the
// updated claim fields and denormalized brief, replaces the matching
// active-list entry. A rejected claim (already claimed by the partner) is
// never applied locally.
func (s *taskService) Claim(ctx context.Context, taskID string) error {
	task, err := s.client.ClaimTask(ctx, taskID)
	if err != nil {
		return err
	}
	s.replaceActive(*task)
	return nil
}

func (s *taskService) Unclaim(ctx context.Context, taskID string) error {
	task, err := s.client.UnclaimTask(ctx, taskID)
	if err != nil {
		return err
	}
	s.replaceActive(*task)
	return nil
}

// Complete moves the task from the active list to the head of the completed
// list, using the server's returned (now-completed) task.
func (s *taskService) Complete(ctx context.Context, taskID string) error {
	task, err := s.client.CompleteTask(ctx, taskID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.active = removeByID(s.active, taskID)
	s.completed = append([]models.Task{*task}, s.completed...)
	s.mu.Unlock()
	return nil
}

// Uncomplete is the inverse of Complete: the task returns to the head of
// the active list.
func (s *taskService) Uncomplete(ctx context.Context, taskID string) error {
	task, err := s.client.UncompleteTask(ctx, taskID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.completed = removeByID(s.completed, taskID)
	s.active = append([]models.Task{*task}, s.active...)
	s.mu.Unlock()
	return nil
}

// Delete removes the task from whichever list currently holds it.
func (s *taskService) Delete(ctx context.Context, taskID string) error {
	if err := s.client.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	s.mu.Lock()
	s.active = removeByID(s.active, taskID)
	s.completed = removeByID(s.completed, taskID)
	s.mu.Unlock()
	return nil
}

func (s *taskService) replaceActive(task models.Task) {
	s.mu.Lock()
	for i := range s.active {
		if s.active[i].ID == task.ID {
			s.active[i] = task
			break
		}
	}
	s.mu.Unlock()
}

func removeByID(tasks []models.Task, id string) []models.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
