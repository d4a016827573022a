package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/qfilter/internal/filters"
	"github.com/ppiankov/qfilter/internal/model"
	"github.com/ppiankov/qfilter/internal/query"
)

// EditResult is printed by the commands that report or rewrite one query
type EditResult struct {
	Query string                   `json:"query" yaml:"query"`
	Type  filters.SearchFilterType `json:"type" yaml:"type"`
}

func newResolveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <query>",
		Short: "Print the result type a query asks for",
		Long: `Resolve reports which result type the query's type: filter selects.

A query with no type: filter, more than one, or one qfilter cannot read
resolves to code.

Example:
  qfilter resolve 'type:diff fix'
  qfilter resolve 'lang:go test' --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := EditResult{Query: args[0], Type: o.editor.ResolveActiveType(args[0])}
			return render(cmd.OutOrStdout(), o.cfg.Output.Format, res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Type)
				return err
			})
		},
	}
}

func newSetTypeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-type <type> <query>",
		Short: "Rewrite a query to ask for another result type",
		Long: `Set-type replaces the query's type: filter with the one for <type>,
appends one when there is none, and drops it when <type> is code.
Everything else in the query is kept as written.

Types: code, repositories, paths, symbols, commits, diffs (or the
type: values repo, path, symbol, commit, diff).

Example:
  qfilter set-type commits 'lang:go test'
  qfilter set-type code 'type:diff fix'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := filters.ParseType(args[0])
			if err != nil {
				return err
			}
			next := o.editor.ApplyTypeChange(args[1], typ)
			o.logger.Debug("type changed",
				zap.String("from", args[1]),
				zap.String("to", next),
				zap.Stringer("type", typ))
			return printQuery(cmd.OutOrStdout(), o, next)
		},
	}
}

func newToggleCmd(o *options) *cobra.Command {
	var (
		section   string
		exclusive bool
	)
	cmd := &cobra.Command{
		Use:   "toggle <filter> <query>",
		Short: "Add or remove a filter in a query",
		Long: `Toggle removes <filter> when the query already has it and appends it
otherwise. With --exclusive other filters of the same kind are removed
first. With --section the sidebar section's kinds and exclusivity apply.

Example:
  qfilter toggle lang:go 'foo'
  qfilter toggle author:alice 'type:commit author:bob' --section author`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, _, ok := query.ParseFilterText(args[0])
			if !ok {
				return fmt.Errorf("not a filter: %q", args[0])
			}
			if _, ok := query.ResolveFilter(field); !ok {
				return fmt.Errorf("unknown or non-negatable filter field %q (see 'qfilter fields')", field)
			}
			var next string
			if section != "" {
				sec, ok := filters.SectionByID(section)
				if !ok {
					return fmt.Errorf("unknown section %q", section)
				}
				next = o.editor.ToggleItem(args[1], sec, args[0])
			} else {
				next = query.ToggleFilterText(args[1], args[0], exclusive)
			}
			return printQuery(cmd.OutOrStdout(), o, next)
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "sidebar section the filter belongs to (e.g. author, lang, symbol-kind)")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "remove other filters of the same kind first")
	return cmd
}

func newSidebarCmd(o *options) *cobra.Command {
	var (
		resultsPath string
		filterQuery string
	)
	cmd := &cobra.Command{
		Use:   "sidebar <query>",
		Short: "Show the filter sidebar for a query",
		Long: `Sidebar lists the result types and the filter sections shown next to
the results of <query>. Dynamic sections are populated from --results,
a JSON or YAML file with "matches" and "filters".

Example:
  qfilter sidebar 'type:commit fix' --results results.json
  qfilter sidebar 'type:symbol parse' --filter func`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var results model.SearchResults
			if resultsPath != "" {
				loaded, err := readResults(resultsPath)
				if err != nil {
					return err
				}
				results = *loaded
			}
			sb := o.editor.Sidebar(args[0], results.Matches, results.Filters, filters.SidebarOptions{
				FilterQuery: filterQuery,
				Now:         time.Now(),
			})
			return render(cmd.OutOrStdout(), o.cfg.Output.Format, sb, func(w io.Writer) error {
				return printSidebar(w, sb)
			})
		},
	}
	cmd.Flags().StringVar(&resultsPath, "results", "", "search results file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&filterQuery, "filter", "", "only show items whose label contains this text")
	return cmd
}

func newFieldsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the filter fields qfilter recognizes",
		Long: `Fields lists every filter field with its aliases, whether it can be
negated with a leading "-", and what it does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := query.Fields()
			return render(cmd.OutOrStdout(), o.cfg.Output.Format, fields, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, f := range fields {
					name := string(f.Type)
					if f.Negatable {
						name = "[-]" + name
					}
					if len(f.Aliases) > 0 {
						name += " (" + strings.Join(f.Aliases, ", ") + ")"
					}
					fmt.Fprintf(tw, "%s\t%s\n", name, f.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func printQuery(w io.Writer, o *options, q string) error {
	res := EditResult{Query: q, Type: o.editor.ResolveActiveType(q)}
	return render(w, o.cfg.Output.Format, res, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, res.Query)
		return err
	})
}

// readResults loads search results, choosing the decoder by extension
func readResults(path string) (*model.SearchResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	var results model.SearchResults
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &results)
	default:
		err = json.Unmarshal(data, &results)
	}
	if err != nil {
		return nil, fmt.Errorf("decode results %s: %w", path, err)
	}
	return &results, nil
}

func printSidebar(w io.Writer, sb filters.Sidebar) error {
	var b strings.Builder
	b.WriteString("Result type\n")
	for _, t := range sb.Types {
		fmt.Fprintf(&b, "  %s %s\n", mark(t.Selected), t.Label)
	}
	for _, sec := range sb.Sections {
		if len(sec.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", sec.Title)
		for _, item := range sec.Items {
			fmt.Fprintf(&b, "  %s %-30s %s", mark(item.Selected), item.Label, item.Value)
			if item.Count > 0 {
				plus := ""
				if item.LimitHit {
					plus = "+"
				}
				fmt.Fprintf(&b, " (%d%s)", item.Count, plus)
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func mark(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}
