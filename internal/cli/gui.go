package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/SheetGang/internal/ui"
)

func newGUICmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "gui [folder]",
		Short: "Open the desktop front end",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			profiles, err := g.loadProfiles()
			if err != nil {
				return err
			}
			opts := ui.Options{
				Config:       cfg,
				ConfigPath:   g.configPath,
				Profiles:     profiles,
				ProfilesPath: g.profilesPath,
				Logger:       loggerFromContext(cmd.Context()),
				Version:      version,
			}
			if len(args) > 0 {
				opts.Folder = args[0]
			}
			ui.Run(opts)
			return nil
		},
	}
}
