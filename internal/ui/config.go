package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing. Routes keep the
window and duration bounds they were created with.

Example:
  hexroute config
  hexroute config --show`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if show {
				printConfig(a.out, a.config)
				return nil
			}
			return a.runConfigInteractive(config.DefaultConfigPath(), os.Stdin)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the effective configuration and exit")
	return cmd
}

func (a *App) runConfigInteractive(configPath string, in io.Reader) error {
	a.printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		a.println("No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		a.printf("Created %s\n\n", configPath)
	}

	printConfig(a.out, cfg)

	reader := bufio.NewReader(in)
	if !a.promptYesNo(reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Window.Start = a.promptValue(reader, "Window start", cfg.Window.Start)
	cfg.Window.End = a.promptValue(reader, "Window end", cfg.Window.End)
	cfg.Window.StepMinutes = a.promptInt(reader, "Slot step (minutes)", cfg.Window.StepMinutes)
	cfg.Duration.MinMinutes = a.promptInt(reader, "Minimum visit (minutes)", cfg.Duration.MinMinutes)
	cfg.Duration.MaxMinutes = a.promptInt(reader, "Maximum visit (minutes)", cfg.Duration.MaxMinutes)
	cfg.Duration.DefaultMinutes = a.promptInt(reader, "Default visit (minutes)", cfg.Duration.DefaultMinutes)
	cfg.Storage.DBPath = a.promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Color = a.promptBool(reader, "Colored output", cfg.UI.Color)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	a.println("\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }

	p("Current configuration:\n")
	p("──────────────────────\n")
	p("[window]\n")
	p("  start           = %s\n", cfg.Window.Start)
	p("  end             = %s\n", cfg.Window.End)
	p("  step_minutes    = %d\n", cfg.Window.StepMinutes)
	p("\n[duration]\n")
	p("  min_minutes     = %d\n", cfg.Duration.MinMinutes)
	p("  max_minutes     = %d\n", cfg.Duration.MaxMinutes)
	p("  default_minutes = %d\n", cfg.Duration.DefaultMinutes)
	p("\n[storage]\n")
	p("  db_path         = %s\n", cfg.Storage.DBPath)
	p("\n[ui]\n")
	p("  color           = %t\n", cfg.UI.Color)
}

func (a *App) promptYesNo(reader *bufio.Reader, question string) bool {
	a.printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func (a *App) promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		a.printf("  %s: ", label)
	} else {
		a.printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (a *App) promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := a.promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		a.printf("  Invalid number %q.\n", value)
	}
}

func (a *App) promptBool(reader *bufio.Reader, label string, current bool) bool {
	hint := "y/N"
	if current {
		hint = "Y/n"
	}
	for {
		a.printf("  %s [%s]: ", label, hint)
		input, _ := reader.ReadString('\n')
		switch strings.TrimSpace(strings.ToLower(input)) {
		case "":
			return current
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		a.printf("  Please answer y or n.\n")
	}
}
