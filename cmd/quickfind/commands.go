package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Cyclone1070/quickfind/internal/lifecycle"
	"github.com/Cyclone1070/quickfind/internal/project"
	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree over deps.
func newRootCommand(deps Dependencies) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "quickfind",
		Short: "Jump to folders, files and lines found by fd and rg",
		Long: `quickfind indexes the configured search paths with fd in the background
and lets you pick a folder or file from a filterable list, or search
lines with rg in a file or across a project.

Without a subcommand it starts an interactive session that keeps the
index fresh when the settings change.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, deps, flags, func(ctx context.Context, a *app) error {
				if a.plain {
					return cmd.Help()
				}
				return runSession(ctx, a, flags)
			})
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to the config file (default ~/.config/quickfind/config.json)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&flags.plain, "plain", false, "Print results one per line instead of opening the picker")

	cmd.AddCommand(newDirsCommand(deps, flags))
	cmd.AddCommand(newFilesCommand(deps, flags))
	cmd.AddCommand(newGrepCommand(deps, flags))
	cmd.AddCommand(newGrepAllCommand(deps, flags))
	cmd.AddCommand(newStatusCommand(deps, flags))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// withApp wires an app for one command and tears it down afterwards.
func withApp(cmd *cobra.Command, deps Dependencies, flags *globalFlags, run func(context.Context, *app) error) error {
	a, err := newApp(deps, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return userError(run(ctx, a))
}

// errReported is returned once the user has already been told what went wrong.
var errReported = errors.New("already reported")

// userError turns the errors users are expected to hit into their short message.
func userError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	var missing *lifecycle.ToolMissingError
	if errors.As(err, &missing) {
		return errReported
	}
	return errors.New(userMessage(err))
}

func newDirsCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "dirs",
		Short: "Pick a folder under the search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, deps, flags, func(ctx context.Context, a *app) error {
				if err := a.manager.Load(ctx); err != nil {
					return err
				}
				return pickFolder(ctx, a, printOnly)
			})
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the chosen folder instead of opening it")
	return cmd
}

func newFilesCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Pick a file under the search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, deps, flags, func(ctx context.Context, a *app) error {
				if err := a.manager.Load(ctx); err != nil {
					return err
				}
				return pickFile(ctx, a, printOnly)
			})
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the chosen file instead of opening it")
	return cmd
}

func newGrepCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "grep <file>",
		Short: "Pick a line of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, deps, flags, func(ctx context.Context, a *app) error {
				if err := a.manager.LoadTools(ctx); err != nil {
					return err
				}
				return pickLine(ctx, a, absPath(a.wd, args[0]))
			})
		},
	}
}

func newGrepAllCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "grep-all [dir...]",
		Short: "Pick a line across folders, by default the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, deps, flags, func(ctx context.Context, a *app) error {
				if err := a.manager.LoadTools(ctx); err != nil {
					return err
				}
				return pickMatch(ctx, a, project.Folders(args, a.wd))
			})
		},
	}
}

func newStatusCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	var noWait bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show tools, search roots and timings of a search cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, deps, flags, func(ctx context.Context, a *app) error {
				if err := a.manager.Load(ctx); err != nil {
					var missing *lifecycle.ToolMissingError
					if !errors.As(err, &missing) {
						return err
					}
				}
				return printStatus(ctx, a, !noWait)
			})
		},
	}
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Report immediately instead of waiting for the search to finish")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quickfind %s\n", Version)
		},
	}
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
