package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	cliconfig "github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/config"
	"github.com/spf13/cobra"
)

// editCmd is the parent command for editing configuration files.
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration file in your default editor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// editConfigCmd is the command for editing the main configuration file.
var editConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the configuration file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFilePath := flagConfigPath
		if configFilePath == "" {
			var err error
			if configFilePath, err = cliconfig.DefaultPath(); err != nil {
				return err
			}
		}
		if printOnly, _ := cmd.Flags().GetBool("path"); printOnly {
			fmt.Fprintln(cmd.OutOrStdout(), configFilePath)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(configFilePath), 0750); err != nil {
			return fmt.Errorf("could not create config directory: %w", err)
		}

		editor, err := determineEditor(cmd)
		if err != nil {
			return err
		}

		console.Info("Opening config file with '%s': %s", editor, configFilePath)
		return openInEditor(editor, configFilePath)
	},
}

// determineEditor selects the editor to use based on flag, config, env var, and fallbacks.
func determineEditor(cmd *cobra.Command) (string, error) {
	// Flag, then config, then $EDITOR, then whatever is installed.
	if editor, _ := cmd.Flags().GetString("editor"); editor != "" {
		return editor, nil
	}

	if cfg.Editor != "" {
		return cfg.Editor, nil
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, nil
	}

	switch runtime.GOOS {
	case "windows":
		return "notepad", nil
	default:
		for _, editor := range []string{"nano", "vi", "vim"} {
			if path, err := exec.LookPath(editor); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("no suitable editor found. please set the --editor flag, 'editor' in your config, or the $EDITOR environment variable")
}

// openInEditor opens the specified file in the given editor. The editor may
// carry arguments, e.g. "code --wait".
func openInEditor(editor, filePath string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return fmt.Errorf("empty editor command")
	}
	// #nosec G204 -- The editor is determined from trusted sources (config, env, flags) or safe fallbacks.
	cmd := exec.Command(fields[0], append(fields[1:], filePath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// init initializes the edit command and its subcommands.
func init() {
	editCmd.PersistentFlags().String("editor", "", "Editor to use for opening files (e.g., 'code', 'vim', 'notepad'). Overrides config and $EDITOR.")
	editConfigCmd.Flags().Bool("path", false, "Print the config file path instead of opening it")
	editCmd.AddCommand(editConfigCmd)
}
