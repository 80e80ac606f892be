package services

import (
	"context"

	"duet/internal/client/api"
	"duet/internal/client/models"
)

// fakeAPI implements api.API for unit tests. Each call delegates to the
// corresponding function field when set; unset calls succeed with zero
// values.
type fakeAPI struct {
	hasToken   bool
	clearCalls int

	requestMagicLinkFn func(email string) (*api.MagicLinkResponse, error)
	verifyFn           func(token string) error
	logoutFn           func() error
	meFn               func() (*models.User, error)
	updateMeFn         func(update api.ProfileUpdate) (*models.User, error)

	createHouseholdFn  func(name string) (*models.Household, error)
	joinHouseholdFn    func(code string) (*models.Household, error)
	currentHouseholdFn func() (*models.Household, error)
	leaveHouseholdFn   func() error

	tasksFn          func() ([]models.Task, error)
	completedTasksFn func() ([]models.Task, error)
	createTaskFn     func(title string) (*models.Task, error)
	claimTaskFn      func(id string) (*models.Task, error)
	unclaimTaskFn    func(id string) (*models.Task, error)
	completeTaskFn   func(id string) (*models.Task, error)
	uncompleteTaskFn func(id string) (*models.Task, error)
	deleteTaskFn     func(id string) error
}

var _ api.API = (*fakeAPI)(nil)

func (f *fakeAPI) HasToken() bool { return f.hasToken }

func (f *fakeAPI) SetToken(ctx context.Context, token string) error {
	f.hasToken = true
	return nil
}

func (f *fakeAPI) ClearToken(ctx context.Context) error {
	f.hasToken = false
	f.clearCalls++
	return nil
}

func (f *fakeAPI) RequestMagicLink(ctx context.Context, email string) (*api.MagicLinkResponse, error) {
	if f.requestMagicLinkFn != nil {
		return f.requestMagicLinkFn(email)
	}
	return &api.MagicLinkResponse{}, nil
}

func (f *fakeAPI) VerifyMagicLink(ctx context.Context, token string) error {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	f.hasToken = true
	return nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.hasToken = false
	if f.logoutFn != nil {
		return f.logoutFn()
	}
	return nil
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	if f.meFn != nil {
		return f.meFn()
	}
	return &models.User{}, nil
}

func (f *fakeAPI) UpdateMe(ctx context.Context, update api.ProfileUpdate) (*models.User, error) {
	if f.updateMeFn != nil {
		return f.updateMeFn(update)
	}
	return &models.User{}, nil
}

func (f *fakeAPI) CreateHousehold(ctx context.Context, name string) (*models.Household, error) {
	if f.createHouseholdFn != nil {
		return f.createHouseholdFn(name)
	}
	return &models.Household{}, nil
}

func (f *fakeAPI) JoinHousehold(ctx context.Context, code string) (*models.Household, error) {
	if f.joinHouseholdFn != nil {
		return f.joinHouseholdFn(code)
	}
	return &models.Household{}, nil
}

func (f *fakeAPI) CurrentHousehold(ctx context.Context) (*models.Household, error) {
	if f.currentHouseholdFn != nil {
		return f.currentHouseholdFn()
	}
	return &models.Household{}, nil
}

func (f *fakeAPI) LeaveHousehold(ctx context.Context) error {
	if f.leaveHouseholdFn != nil {
		return f.leaveHouseholdFn()
	}
	return nil
}

func (f *fakeAPI) Tasks(ctx context.Context) ([]models.Task, error) {
	if f.tasksFn != nil {
		return f.tasksFn()
	}
	return nil, nil
}

func (f *fakeAPI) CompletedTasks(ctx context.Context) ([]models.Task, error) {
	if f.completedTasksFn != nil {
		return f.completedTasksFn()
	}
	return nil, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, title string) (*models.Task, error) {
	if f.createTaskFn != nil {
		return f.createTaskFn(title)
	}
	return &models.Task{Title: title}, nil
}

func (f *fakeAPI) ClaimTask(ctx context.Context, id string) (*models.Task, error) {
	if f.claimTaskFn != nil {
		return f.claimTaskFn(id)
	}
	return &models.Task{ID: id}, nil
}

func (f *fakeAPI) UnclaimTask(ctx context.Context, id string) (*models.Task, error) {
	if f.unclaimTaskFn != nil {
		return f.unclaimTaskFn(id)
	}
	return &models.Task{ID: id}, nil
}

func (f *fakeAPI) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	if f.completeTaskFn != nil {
		return f.completeTaskFn(id)
	}
	return &models.Task{ID: id}, nil
}

func (f *fakeAPI) UncompleteTask(ctx context.Context, id string) (*models.Task, error) {
	if f.uncompleteTaskFn != nil {
		return f.uncompleteTaskFn(id)
	}
	return &models.Task{ID: id}, nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id string) error {
	if f.deleteTaskFn != nil {
		return f.deleteTaskFn(id)
	}
	return nil
}
