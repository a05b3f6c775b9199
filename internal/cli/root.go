package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information shown by --version. main calls it
// with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// maxRecentFolders bounds AppConfig.RecentFolders.
const maxRecentFolders = 10

// globalOpts holds the persistent flags shared by every command.
type globalOpts struct {
	verbose      bool
	configPath   string
	profilesPath string
}

func (g *globalOpts) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(g.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", g.configPath, err)
	}
	return cfg, nil
}

func (g *globalOpts) loadProfiles() ([]model.GCodeProfile, error) {
	profiles, err := project.LoadCustomProfiles(g.profilesPath)
	if err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", g.profilesPath, err)
	}
	return profiles, nil
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOpts{}

	root := &cobra.Command{
		Use:          "sheetgang",
		Short:        "Gang a folder of images onto print sheets with paired cut outlines",
		Long:         `SheetGang tiles every image of a folder into a uniform grid of frames across as many pages as needed, choosing the frame orientation that fits the most frames per page. Each frame gets a cut outline on a separate, non-printing layer.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if g.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("sheetgang %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&g.configPath, "config", project.DefaultConfigPath(), "application config file")
	root.PersistentFlags().StringVar(&g.profilesPath, "profiles", project.DefaultProfilesPath(), "custom cutter profiles file")

	root.AddCommand(newImposeCmd(g))
	root.AddCommand(newPlanCmd(g))
	root.AddCommand(newWatchCmd(g))
	root.AddCommand(newConfigCmd(g))
	root.AddCommand(newGUICmd(g))

	return root
}

// Execute runs the CLI with ctx, which main cancels on interrupt.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
