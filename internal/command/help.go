package command

import (
	"context"
	"fmt"
)

type HelpCommand struct {
	deps     *Dependencies
	registry *Registry
}

func NewHelpCommand(deps *Dependencies, registry *Registry) *HelpCommand {
	return &HelpCommand{deps: deps, registry: registry}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show this help"
}

func (c *HelpCommand) Execute(ctx context.Context, args []string) error {
	c.deps.Print("Commands:")
	for _, cmd := range c.registry.Commands() {
		c.deps.Print(fmt.Sprintf("  %-10s %s", cmd.Name(), cmd.Description()))
	}
	c.deps.Print("  quit       Leave the session")
	return nil
}
