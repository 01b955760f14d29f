package main

import (
	"fmt"
	"os"
	"strings"

	pr "github.com/benoitkugler/webstyle/css/properties"
	"github.com/benoitkugler/webstyle/html/tree"
	"github.com/benoitkugler/webstyle/internal/config"
	"github.com/benoitkugler/webstyle/logger"
	"github.com/benoitkugler/webstyle/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:          "webstyle",
		Short:        "Compute the CSS style of HTML documents",
		Version:      version.Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML configuration file")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newStyleCmd(&cfgFile), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.VersionString)
		},
	}
}

type styleFlags struct {
	userSheets   []string
	authorSheets []string
	properties   []string
	report       bool
}

func newStyleCmd(cfgFile *string) *cobra.Command {
	var flags styleFlags
	cmd := &cobra.Command{
		Use:   "style <file.html>",
		Short: "Print the styled tree of an HTML document",
		Long: `Parses the document, cascades the user agent sheet, the user sheets,
the author sheets given with --css and the <style> elements of the document,
then prints the element tree with the computed values of the requested
properties (all of them by default).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), *cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := logger.SetLevel(cfg.Logger.Level); err != nil {
				return err
			}
			return runStyle(cmd, args[0], cfg.Options(), flags)
		},
	}
	cmd.Flags().StringArrayVar(&flags.userSheets, "user-css", nil, "user style sheet (repeatable)")
	cmd.Flags().StringArrayVar(&flags.authorSheets, "css", nil, "additional author style sheet (repeatable)")
	cmd.Flags().StringSliceVarP(&flags.properties, "property", "p", nil, "properties to print (default all)")
	cmd.Flags().BoolVar(&flags.report, "report", false, "print the dropped rules and invalid values")
	return cmd
}

func runStyle(cmd *cobra.Command, file string, opts tree.Options, flags styleFlags) error {
	props, err := parseProperties(flags.properties)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := tree.Parse(f)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", file)
	}

	userSheets, err := loadSheets(flags.userSheets)
	if err != nil {
		return err
	}
	authorSheets, err := loadSheets(flags.authorSheets)
	if err != nil {
		return err
	}
	set := tree.NewStyleSheetSet(doc, userSheets...)
	set.Author = append(set.Author, authorSheets...)

	styles, err := tree.StyleDocument(cmd.Context(), doc, set, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, styles.Dump(props...))
	if flags.report {
		printReport(cmd, styles)
	}
	return nil
}

func parseProperties(names []string) ([]pr.KnownProp, error) {
	out := make([]pr.KnownProp, 0, len(names))
	for _, name := range names {
		p, ok := pr.PropFromName(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, errors.Errorf("unknown property %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}

func loadSheets(paths []string) ([]tree.CSS, error) {
	out := make([]tree.CSS, len(paths))
	for i, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out[i] = tree.NewCSS(string(content), path)
	}
	return out, nil
}

func printReport(cmd *cobra.Command, styles *tree.Styles) {
	out := cmd.OutOrStdout()
	report := styles.Report()
	if report.IsEmpty() {
		fmt.Fprintln(out, "No problem found.")
		return
	}
	doc := styles.Document()
	for _, rule := range report.DroppedRules {
		fmt.Fprintf(out, "dropped rule   %s (%s, %s): %s\n", rule.Selector, rule.Sheet, rule.Origin, rule.Err)
	}
	for _, at := range report.IgnoredAtRules {
		fmt.Fprintf(out, "ignored rule   %s %s (%s): %s\n", at.Name, at.Prelude, at.Sheet, at.Reason)
	}
	for _, decl := range report.IgnoredDeclarations {
		where := decl.Sheet
		if decl.Node != tree.None {
			where += " of " + doc.Label(decl.Node)
		}
		fmt.Fprintf(out, "ignored value  %s: %s (%s): %s\n", decl.Name, decl.Value, where, decl.Reason)
	}
	for _, w := range report.Warnings {
		label := doc.Label(w.Node)
		if w.Pseudo != "" {
			label += "::" + w.Pseudo
		}
		fmt.Fprintf(out, "invalid value  %s: %s\n", label, w.Error())
	}
}
