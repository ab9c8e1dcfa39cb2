package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type ProfileCommand struct {
	deps *Dependencies
}

func NewProfileCommand(deps *Dependencies) *ProfileCommand {
	return &ProfileCommand{deps: deps}
}

func (c *ProfileCommand) Name() string {
	return "profile"
}

func (c *ProfileCommand) Description() string {
	return "Fetch and show your profile"
}

func (c *ProfileCommand) Execute(ctx context.Context, args []string) error {
	result := c.deps.Client.FetchProfile(ctx)
	if !result.OK {
		c.deps.Logger.Warn("Profile fetch failed",
			zap.Int("status", result.Status),
			zap.String("error", result.Err),
		)
		c.deps.PrintError(result.Err)
		if result.Retryable() {
			c.deps.Print("Connection trouble - run 'profile' again to retry.")
		}
		return nil
	}

	profile := result.Data
	c.deps.State.ApplyProfile(&profile)

	if err := c.deps.Editor.Reset(profile.GetFavoriteMovie()); err != nil {
		// An edit is in flight; the fresh snapshot must not clobber it.
		c.deps.Logger.Debug("Skipped editor reset", zap.Error(err))
	}

	c.deps.Print(fmt.Sprintf("Signed in as %s", profile.DisplayName()))
	if profile.HasFavoriteMovie() {
		c.deps.Print(fmt.Sprintf("Favorite movie: %s", profile.GetFavoriteMovie()))
	} else {
		c.deps.Print("No favorite movie yet - set one with 'movie <title>'.")
	}
	if !profile.Onboarded {
		c.deps.Print("Heads up: onboarding is not finished.")
	}
	return nil
}
