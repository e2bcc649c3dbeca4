package command

import (
	commandHandler "resourcegen/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewUsageHandler)

type Command struct {
	usageHandler *commandHandler.UsageHandler
}

// NewCommand .
func NewCommand(
	usageHandler *commandHandler.UsageHandler,
) *Command {
	return &Command{
		usageHandler: usageHandler,
	}
}

// Register 掛上維運子命令，每個子命令各自建立依賴並在結束時釋放
func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	run := func(fn func(*Command, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return fn(command, cmd, args)
		}
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "create the usage store schema (idempotent)",
			Args:  cobra.NoArgs,
			RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
				return c.usageHandler.Migrate(cmd, args)
			}),
		},
		&cobra.Command{
			Use:   "activate <identity>",
			Short: "mark an identity as paid",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
				return c.usageHandler.Activate(cmd, args)
			}),
		},
		&cobra.Command{
			Use:   "usage <identity>",
			Short: "show the usage record of an identity",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
				return c.usageHandler.Usage(cmd, args)
			}),
		},
		&cobra.Command{
			Use:   "stats",
			Short: "show usage totals",
			Args:  cobra.NoArgs,
			RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
				return c.usageHandler.Stats(cmd, args)
			}),
		},
	)
}
