package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solvaholic/slacknotes/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or write ~/.slacknotes/config settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value (dotted section.key form)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a configuration value (dotted section.key form)",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	key := args[0]
	if !cfg.HasKey(key) {
		fmt.Println("(unset)")
		return nil
	}
	fmt.Println(cfg.GetString(key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := config.SetString(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	fmt.Printf("%s = %s\n", args[0], args[1])
	return nil
}
