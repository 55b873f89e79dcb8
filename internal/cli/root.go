package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd returns a fresh lotctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "lotctl",
		Version: version,
		Short:   "Manage parking listings and run offline searches",
		Long: `lotctl loads parking listings into SQLite or Postgres and answers
"where can these vehicles park, and for how much?" against a local catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetHelpFunc(helpFunc)

	root.AddGroup(
		&cobra.Group{ID: "catalog", Title: "Catalog:"},
		&cobra.Group{ID: "search", Title: "Search:"},
	)

	root.AddCommand(newDBCmd(), newSearchCmd())
	return root
}

// helpFunc colors section titles and lists grouped subcommands.
func helpFunc(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	if cmd.Long != "" {
		fmt.Fprintf(out, "%s\n\n", cmd.Long)
	} else if cmd.Short != "" {
		fmt.Fprintf(out, "%s\n\n", cmd.Short)
	}

	_, _ = sectionTitleColor.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		_, _ = groupTitleColor.Fprintln(out, group.Title)
		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-8s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	writeUngrouped(out, cmd)

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailableInheritedFlags() {
		_, _ = sectionTitleColor.Fprintln(out, "Flags:")
		fmt.Fprint(out, cmd.LocalFlags().FlagUsages())
		fmt.Fprint(out, cmd.InheritedFlags().FlagUsages())
		fmt.Fprintln(out)
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(out, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}
}

func writeUngrouped(out io.Writer, cmd *cobra.Command) {
	header := false
	for _, c := range cmd.Commands() {
		if c.GroupID != "" || !c.IsAvailableCommand() {
			continue
		}
		if !header {
			_, _ = sectionTitleColor.Fprintln(out, "Commands:")
			header = true
		}
		fmt.Fprintf(out, "  %-8s %s\n", c.Name(), c.Short)
	}
	if header {
		fmt.Fprintln(out)
	}
}
