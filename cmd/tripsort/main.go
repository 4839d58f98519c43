package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tripsort/internal/app"
	"tripsort/internal/config"
	"tripsort/internal/model"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a TripApp. The caller must defer
// app.Close(). Prompts for a passphrase when the credential store is
// encrypted.
func newApp() (*app.TripApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	passphrase := ""
	if cfg.Credentials.Type == "age" {
		passphrase, err = readPassphrase()
		if err != nil {
			return nil, err
		}
	}

	a, err := app.NewTripApp(cfg, passphrase)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase prompts on the terminal without echoing.
func readPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(data), nil
}

// parseTripStart parses the optional --trip-start flag.
func parseTripStart(cmd *cobra.Command) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString("trip-start")
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid trip start date %q (want YYYY-MM-DD)", raw)
	}
	return &ts, nil
}

var rootCmd = &cobra.Command{
	Use:   "tripsort",
	Short: "Travel photo organizer",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Database:    %s\n", cfg.Database.Type)
		fmt.Printf("Credentials: %s (%s)\n", cfg.Credentials.Type, cfg.Credentials.Path)
		fmt.Printf("Snapshots:   %s\n", cfg.Snapshot.Type)
		return nil
	},
}

// project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage trip projects",
}

var projectInitCmd = &cobra.Command{
	Use:   "init NAME [PATH]",
	Short: "Create a project from a photo folder",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripStart, err := parseTripStart(cmd)
		if err != nil {
			return err
		}

		target := "."
		if len(args) > 1 {
			target = args[1]
		}
		root, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		state, err := a.InitProject(args[0], root, nil, tripStart)
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		fmt.Printf("Project created: %s\n", state.ProjectID)
		fmt.Printf("Scanned %d media file(s) under %s\n", len(state.Photos), root)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		infos, err := a.ListProjects()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No projects.")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%s  %-25s  %d file(s)\n", info.ID, info.Name, info.EditCount)
		}
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete PROJECT_ID",
	Short: "Delete a project (photos on disk are untouched)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteProject(args[0]); err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}
		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}

var projectRestoreCmd = &cobra.Command{
	Use:   "restore PROJECT_ID",
	Short: "Restore project state from the latest snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RestoreState(args[0]); err != nil {
			return err
		}
		fmt.Printf("Restored project %s from snapshot\n", args[0])
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan [PATH]",
	Short: "Preview how a folder would map to trip days",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		tripStart, err := parseTripStart(cmd)
		if err != nil {
			return err
		}

		target := "."
		if len(args) > 0 {
			target = args[0]
		}
		root, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		mappings, err := a.PreviewFolders(root, name, tripStart)
		if err != nil {
			return err
		}
		if len(mappings) == 0 {
			fmt.Println("No folders found.")
			return nil
		}

		for _, m := range mappings {
			day := "-"
			if m.Day != nil {
				day = fmt.Sprintf("day %d (%s)", *m.Day, m.Confidence)
			}
			fmt.Printf("%-30s  %-20s  %d file(s)\n", m.FolderName, day, m.PhotoCount)
			for _, b := range m.Buckets {
				fmt.Printf("    %-26s  %s\n", b.FolderName, b.Bucket.Label())
			}
		}
		return nil
	},
}

// order command
var orderCmd = &cobra.Command{
	Use:   "order PROJECT_ID",
	Short: "Show the display order of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("group")
		separateVideos, _ := cmd.Flags().GetBool("separate-videos")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		state, result, err := a.ListOrder(args[0], mode, separateVideos)
		if err != nil {
			return err
		}

		printPhoto := func(p *model.Photo) {
			day := "-"
			if p.Day != nil {
				day = fmt.Sprintf("%d", *p.Day)
			}
			bucket := "-"
			if p.Bucket != nil {
				bucket = p.Bucket.Label()
			}
			fmt.Printf("  %-40s  day:%-3s  %s\n", p.CurrentName, day, bucket)
		}

		fmt.Printf("%s — %d file(s)\n", state.Name, len(result.Photos))
		if len(result.Groups) > 0 {
			for _, g := range result.Groups {
				fmt.Printf("\n%s\n", g.Label)
				for _, p := range g.Photos {
					printPhoto(p)
				}
			}
		} else {
			for _, p := range result.Photos {
				printPhoto(p)
			}
		}
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status PROJECT_ID",
	Short: "Show a project's organization progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.Status(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", status.Name)
		fmt.Printf("  Photos:     %d\n", status.Photos)
		fmt.Printf("  Videos:     %d\n", status.Videos)
		fmt.Printf("  Assigned:   %d\n", status.Assigned)
		fmt.Printf("  Unassigned: %d\n", status.Unassigned)
		fmt.Printf("  Archived:   %d\n", status.Archived)
		fmt.Printf("  Favorites:  %d\n", status.Favorites)
		fmt.Printf("  Days:       %d\n", status.Days)
		return nil
	},
}

// plan command
var planCmd = &cobra.Command{
	Use:   "plan PROJECT_ID",
	Short: "Show the moves that would apply the current assignments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		moves, err := a.MovePlan(args[0])
		if err != nil {
			return err
		}
		if len(moves) == 0 {
			fmt.Println("Nothing to move.")
			return nil
		}
		for _, m := range moves {
			fmt.Printf("%s -> %s\n", m.From, m.To)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	projectCmd.AddCommand(projectInitCmd)
	projectInitCmd.Flags().String("trip-start", "", "First day of the trip (YYYY-MM-DD)")
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectRestoreCmd)

	scanCmd.Flags().String("name", "", "Project name, excluded from day detection")
	scanCmd.Flags().String("trip-start", "", "First day of the trip (YYYY-MM-DD)")

	orderCmd.Flags().StringP("group", "g", "none", "Grouping: none, subfolder, bucket, or day")
	orderCmd.Flags().Bool("separate-videos", false, "Order stills before videos within each group")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(planCmd)
}
