package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/okved-cli/internal/okved"
)

var (
	childrenCodes bool
	topCodes      bool
)

var nameCmd = &cobra.Command{
	Use:   "name CODE",
	Short: "Print the name of a code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(cmd.Context(), "query")
		if err != nil {
			return err
		}
		name, ok := c.NameByCode(args[0])
		if !ok {
			return eris.Errorf("code %s not found", args[0])
		}
		if cfg.Output.Format == "table" {
			return render(cmd.OutOrStdout(), cfg.Output.Format, name)
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, okved.Entry{Code: args[0], Name: name})
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup CODE",
	Short: "Show a code with its level, parent and top section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(cmd.Context(), "query")
		if err != nil {
			return err
		}
		node, ok := c.Lookup(args[0])
		if !ok {
			return eris.Errorf("code %s not found", args[0])
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, node)
	},
}

var childrenCmd = &cobra.Command{
	Use:   "children CODE",
	Short: "List every descendant of a code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(cmd.Context(), "query")
		if err != nil {
			return err
		}
		if childrenCodes {
			return render(cmd.OutOrStdout(), cfg.Output.Format, c.ChildrenCodesByCode(args[0]))
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, c.ChildrenByCode(args[0]))
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List main sections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(cmd.Context(), "query")
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, c.AllSections())
	},
}

var topCmd = &cobra.Command{
	Use:   "top [ID]",
	Short: "List top-level sections, or the codes under one of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(cmd.Context(), "query")
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return render(cmd.OutOrStdout(), cfg.Output.Format, c.AllTopSections())
		}

		var result any
		if topCodes {
			result, err = c.ChildrenCodesByTopSection(args[0])
		} else {
			result, err = c.ChildrenByTopSection(args[0])
		}
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, result)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the full classifier grouped by top-level section",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(cmd.Context(), "query")
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, c.FullList())
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find codes whose code or name contains QUERY",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(cmd.Context(), "query")
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Output.Format, c.Search(args[0]))
	},
}

func init() {
	childrenCmd.Flags().BoolVar(&childrenCodes, "codes", false, "print codes only")
	topCmd.Flags().BoolVar(&topCodes, "codes", false, "print codes only")

	rootCmd.AddCommand(nameCmd, lookupCmd, childrenCmd, sectionsCmd, topCmd, listCmd, searchCmd)
}
