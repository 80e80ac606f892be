package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"duet/internal/client/models"
	"duet/internal/client/services"
)

var (
	errNoSuchTask    = errors.New("no task matches that id")
	errAmbiguousTask = errors.New("id prefix matches more than one task, use more characters")
)

// matchTask resolves a user-typed reference against a task list. An exact
// id match wins; otherwise a case-insensitive id prefix must be unique.
func matchTask(tasks []models.Task, ref string) (*models.Task, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, errNoSuchTask
	}

	var found *models.Task
	for i := range tasks {
		id := strings.ToLower(tasks[i].ID)
		if id == ref {
			return &tasks[i], nil
		}
		if strings.HasPrefix(id, ref) {
			if found != nil {
				return nil, errAmbiguousTask
			}
			found = &tasks[i]
		}
	}
	if found == nil {
		return nil, errNoSuchTask
	}
	return found, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *App) SignIn(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter your email", a.out)
	if err != nil {
		return err
	}

	resp, err := a.auth.SignIn(ctx, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Magic link requested. Check your email, then run 'verify <token>'.")
	if resp.MagicLink != "" {
		// Dev deployments hand the link back directly.
		fmt.Fprintf(a.out, "Magic link: %s\n", resp.MagicLink)
	}
	return nil
}

func (a *App) Verify(ctx context.Context, token string) error {
	if token == "" {
		var err error
		token, err = GetSecret("Magic link token", a.out)
		if err != nil {
			return err
		}
	}

	if err := a.auth.Verify(ctx, token); err != nil {
		return err
	}

	user := a.auth.CurrentUser()
	fmt.Fprintf(a.out, "Signed in as %s.\n", user.DisplayName())
	a.startSession(ctx)
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	a.tasks.Stop()
	a.auth.SignOut(ctx)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) Whoami() error {
	user := a.auth.CurrentUser()
	if user == nil {
		return nil
	}
	fmt.Fprintf(a.out, "Email:  %s\n", user.Email)
	if user.Name != nil {
		fmt.Fprintf(a.out, "Name:   %s\n", *user.Name)
	}
	fmt.Fprintf(a.out, "Colour: %s\n", user.AvatarColor)
	if hh := a.households.Current(); hh != nil {
		fmt.Fprintf(a.out, "Household: %s (invite code %s)\n", hh.Name, hh.InviteCode)
	}
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Display name (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	colour, err := GetSimpleText(a.reader, "Avatar colour, e.g. #f97316 (empty keeps current)", a.out)
	if err != nil {
		return err
	}

	var namePtr, colourPtr *string
	if name != "" {
		namePtr = &name
	}
	if colour != "" {
		colourPtr = &colour
	}
	if namePtr == nil && colourPtr == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	if err := a.auth.UpdateProfile(ctx, namePtr, colourPtr); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

func (a *App) CreateHousehold(ctx context.Context, name string) error {
	hh, err := a.households.Create(ctx, name)
	if err != nil {
		return err
	}
	a.auth.RefreshUser(ctx)
	fmt.Fprintf(a.out, "Household %q created. Invite code: %s\n", hh.Name, hh.InviteCode)
	a.tasks.Start(ctx, hh.ID)
	a.startPush(ctx)
	return nil
}

func (a *App) JoinHousehold(ctx context.Context, code string) error {
	hh, err := a.households.Join(ctx, code)
	if err != nil {
		return err
	}
	a.auth.RefreshUser(ctx)
	fmt.Fprintf(a.out, "Joined household %q.\n", hh.Name)
	a.tasks.Start(ctx, hh.ID)
	a.startPush(ctx)
	return nil
}

func (a *App) Invite() error {
	hh := a.households.Current()
	if hh == nil {
		return services.ErrNoHousehold
	}
	fmt.Fprintf(a.out, "Invite code: %s\n", hh.InviteCode)
	fmt.Fprintf(a.out, "Your partner can run: duet -join %s\n", hh.InviteCode)
	return nil
}

func (a *App) LeaveHousehold(ctx context.Context) error {
	a.tasks.Stop()
	if err := a.households.Leave(ctx); err != nil {
		return err
	}
	a.auth.RefreshUser(ctx)
	fmt.Fprintln(a.out, "You left the household.")
	return nil
}

func (a *App) List() error {
	user := a.auth.CurrentUser()
	if user == nil {
		return nil
	}
	active := a.tasks.Active()
	completed := a.tasks.Completed()

	a.printGroup("Mine", models.ClaimedByUser(active, user.ID))
	a.printGroup("Up for grabs", models.Unclaimed(active))
	a.printGroup(partnerHeading(a.households.Members(), user.ID), models.ClaimedByOthers(active, user.ID))

	fmt.Fprintln(a.out, "Done (last 7 days)")
	if len(completed) == 0 {
		fmt.Fprintln(a.out, "  nothing yet")
		return nil
	}
	for _, t := range completed {
		by := "Partner"
		if t.CompletedByUser != nil {
			by = t.CompletedByUser.DisplayName()
		}
		when := ""
		if t.CompletedAt != nil {
			when = t.CompletedAt.Local().Format("Mon 15:04")
		}
		fmt.Fprintf(a.out, "  [%s] %s  (%s, %s)\n", shortID(t.ID), t.Title, by, when)
	}
	return nil
}

func (a *App) printGroup(heading string, tasks []models.Task) {
	fmt.Fprintln(a.out, heading)
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "  nothing here")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(a.out, "  [%s] %s\n", shortID(t.ID), t.Title)
	}
}

// partnerHeading names the third group after the other member when known.
func partnerHeading(members []models.UserBrief, selfID string) string {
	for _, m := range members {
		if m.ID != selfID {
			return m.DisplayName()
		}
	}
	return "Partner"
}

func (a *App) AddTask(ctx context.Context, title string) error {
	task, err := a.tasks.Add(ctx, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added [%s] %s\n", shortID(task.ID), task.Title)
	return nil
}

func (a *App) Claim(ctx context.Context, ref string) error {
	task, err := matchTask(a.tasks.Active(), ref)
	if err != nil {
		return err
	}
	if err := a.tasks.Claim(ctx, task.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Claimed %q.\n", task.Title)
	return nil
}

func (a *App) Unclaim(ctx context.Context, ref string) error {
	task, err := matchTask(a.tasks.Active(), ref)
	if err != nil {
		return err
	}
	if err := a.tasks.Unclaim(ctx, task.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Released %q.\n", task.Title)
	return nil
}

func (a *App) Done(ctx context.Context, ref string) error {
	task, err := matchTask(a.tasks.Active(), ref)
	if err != nil {
		return err
	}
	if err := a.tasks.Complete(ctx, task.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Done: %q.\n", task.Title)
	return nil
}

func (a *App) Undo(ctx context.Context, ref string) error {
	task, err := matchTask(a.tasks.Completed(), ref)
	if err != nil {
		return err
	}
	if err := a.tasks.Uncomplete(ctx, task.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Back on the list: %q.\n", task.Title)
	return nil
}

func (a *App) Remove(ctx context.Context, ref string) error {
	// rm accepts a reference from either list.
	task, err := matchTask(a.tasks.Active(), ref)
	if errors.Is(err, errNoSuchTask) {
		task, err = matchTask(a.tasks.Completed(), ref)
	}
	if err != nil {
		return err
	}
	if err := a.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %q.\n", task.Title)
	return nil
}
