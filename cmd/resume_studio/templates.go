package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/types"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "Browse the template registry",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show one template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesShow,
}

var templatesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search template names, categories and features",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesSearch,
}

var templatesRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend templates for a role or industry",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesRecommend,
}

var templatesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry totals",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesStats,
}

var templatesCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List template categories",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesCategories,
}

var (
	templatesCategory string
	templatesFilter   string
	templatesJSON     bool

	recommendIndustry string
	recommendRole     string
	recommendLevel    string
	recommendKeywords []string
)

func init() {
	templatesCmd.PersistentFlags().BoolVar(&templatesJSON, "json", false, "Print JSON instead of a table")

	templatesListCmd.Flags().StringVarP(&templatesCategory, "category", "c", "", "Only templates in this category")
	templatesListCmd.Flags().StringVarP(&templatesFilter, "filter", "f", "", "Only popular, featured, premium or ats templates")

	templatesRecommendCmd.Flags().StringVar(&recommendIndustry, "industry", "", "Industry, e.g. finance")
	templatesRecommendCmd.Flags().StringVar(&recommendRole, "role", "", "Role, e.g. developer")
	templatesRecommendCmd.Flags().StringVar(&recommendLevel, "level", "", "Experience level, e.g. senior")
	templatesRecommendCmd.Flags().StringSliceVarP(&recommendKeywords, "keyword", "k", nil, "Additional keywords (repeatable)")

	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd, templatesSearchCmd,
		templatesRecommendCmd, templatesStatsCmd, templatesCategoriesCmd)
	rootCmd.AddCommand(templatesCmd)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTemplates(cmd *cobra.Command, title string, templates []types.Template) error {
	if templatesJSON {
		return printJSON(cmd, templates)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(title, templates)
	return nil
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(cmd.Context(), appConfig)
	if err != nil {
		return err
	}

	var templates []types.Template
	switch strings.ToLower(templatesFilter) {
	case "":
		templates = reg.All()
	case "popular":
		templates = reg.Popular()
	case "featured":
		templates = reg.Featured()
	case "premium":
		templates = reg.Premium()
	case "ats":
		templates = reg.ATSOptimized()
	default:
		return fmt.Errorf("unknown filter %q (want popular, featured, premium or ats)", templatesFilter)
	}

	title := "TEMPLATES"
	if templatesCategory != "" {
		if _, ok := reg.Category(templatesCategory); !ok {
			return fmt.Errorf("category not found: %s", templatesCategory)
		}
		filtered := templates[:0]
		for _, t := range templates {
			if t.Category == templatesCategory {
				filtered = append(filtered, t)
			}
		}
		templates = filtered
		title = "TEMPLATES: " + strings.ToUpper(templatesCategory)
	}
	return printTemplates(cmd, title, templates)
}

func runTemplatesShow(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	t, ok := reg.Get(args[0])
	if !ok {
		return fmt.Errorf("template not found: %s", args[0])
	}
	if templatesJSON {
		return printJSON(cmd, t)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintTemplate(t)
	return nil
}

func runTemplatesSearch(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	return printTemplates(cmd, fmt.Sprintf("SEARCH: %q", args[0]), reg.Search(args[0]))
}

func runTemplatesRecommend(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	criteria := &registry.Criteria{
		Industry:        recommendIndustry,
		Role:            recommendRole,
		ExperienceLevel: recommendLevel,
		Keywords:        recommendKeywords,
	}
	return printTemplates(cmd, "RECOMMENDED", reg.Recommend(criteria))
}

func runTemplatesStats(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	if templatesJSON {
		return printJSON(cmd, reg.Stats())
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintStats(reg.Stats())
	return nil
}

func runTemplatesCategories(cmd *cobra.Command, _ []string) error {
	reg, err := buildRegistry(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	if templatesJSON {
		return printJSON(cmd, reg.Categories())
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCategories(reg.Categories())
	return nil
}
