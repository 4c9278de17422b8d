package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect the question bank",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate every bank file named in the config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := loadBank(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		stats := b.Stats()
		fmt.Fprintf(out, "common: %d questions (block 1 draws %d)\n", stats.Common, cfg.BlockOneCount)
		for _, r := range b.Roles() {
			fmt.Fprintf(out, "%s: %d questions (block 2 draws %d)\n", r.Slug, len(r.Questions), r.BlockTwoCount)
			if len(r.Questions) < r.BlockTwoCount {
				fmt.Fprintf(out, "  note: pool is smaller than block 2, every question will be used\n")
			}
		}
		fmt.Fprintln(out, "bank OK")
		return nil
	},
}

var bankRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the configured roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b, err := loadBank(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-30s  %9s  %7s\n", "SLUG", "TITLE", "QUESTIONS", "BLOCK 2")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, r := range b.Roles() {
			fmt.Fprintf(out, "%-20s  %-30s  %9d  %7d\n", r.Slug, r.Title, len(r.Questions), r.BlockTwoCount)
		}
		fmt.Fprintf(out, "\n%d roles\n", len(b.Roles()))
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankRolesCmd)
}
