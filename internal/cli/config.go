package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

func newConfigCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage application defaults and cutter profiles",
	}
	cmd.AddCommand(
		newConfigShowCmd(g),
		newConfigInitCmd(g),
		newConfigBackupCmd(g),
		newConfigRestoreCmd(g),
		newProfilesCmd(g),
	)
	return cmd
}

func newConfigShowCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective application config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			p := printer{w: cmd.OutOrStdout()}
			p.title("%s", g.configPath)
			p.keyValue("Page", fmt.Sprintf("%g x %g mm", cfg.DefaultPageWidth, cfg.DefaultPageHeight))
			p.keyValue("Frame", fmt.Sprintf("%g x %g mm", cfg.DefaultFrameWidth, cfg.DefaultFrameHeight))
			p.keyValue("Gap H / V", fmt.Sprintf("%g / %g mm", cfg.DefaultGapH, cfg.DefaultGapV))
			p.keyValue("Cut contour", fmt.Sprint(cfg.DefaultCutContour))
			p.keyValue("Cutter profile", cfg.DefaultGCodeProfile)
			outDir := cfg.OutputDir
			if outDir == "" {
				outDir = "(next to the image folder)"
			}
			p.keyValue("Output dir", outDir)
			for i, f := range cfg.RecentFolders {
				key := ""
				if i == 0 {
					key = "Recent folders"
				}
				p.keyValue(key, f)
			}
			return nil
		},
	}
}

func newConfigInitCmd(g *globalOpts) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default application config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if project.FileExists(g.configPath) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", g.configPath)
			}
			if err := project.SaveAppConfig(g.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("wrote %s", g.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func newConfigBackupCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Save the config and custom profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			profiles, err := g.loadProfiles()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, profiles); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("backed up config and %d profile(s) to %s", len(profiles), args[0])
			return nil
		},
	}
}

func newConfigRestoreCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the config and custom profiles from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(g.configPath, backup.Config); err != nil {
				return err
			}
			if err := project.SaveCustomProfiles(g.profilesPath, backup.Profiles); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("restored backup from %s (created %s)", args[0], backup.CreatedAt)
			return nil
		},
	}
}

func newProfilesCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List cutter profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := g.loadProfiles()
			if err != nil {
				return err
			}
			p := printer{w: cmd.OutOrStdout()}
			p.title("Built-in")
			for _, prof := range model.GCodeProfiles {
				p.keyValue(prof.Name, prof.Description)
			}
			if len(custom) > 0 {
				p.title("Custom")
				for _, prof := range custom {
					p.keyValue(prof.Name, prof.Description)
				}
			}
			return nil
		},
	}
	cmd.AddCommand(newProfileImportCmd(g), newProfileExportCmd(g))
	return cmd
}

func newProfileImportCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add or replace a custom profile from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := project.ImportProfile(args[0])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			custom, err := g.loadProfiles()
			if err != nil {
				return err
			}
			replaced := false
			for i := range custom {
				if custom[i].Name == prof.Name {
					custom[i] = prof
					replaced = true
				}
			}
			if !replaced {
				custom = append(custom, prof)
			}
			if err := project.SaveCustomProfiles(g.profilesPath, custom); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("imported profile %s", prof.Name)
			return nil
		},
	}
}

func newProfileExportCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write a profile to a JSON file for sharing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := g.loadProfiles()
			if err != nil {
				return err
			}
			prof := project.ResolveProfile(args[0], custom)
			if prof.Name != args[0] {
				return fmt.Errorf("unknown profile %q", args[0])
			}
			if err := project.ExportProfile(args[1], prof); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("exported profile %s to %s", prof.Name, args[1])
			return nil
		},
	}
}
