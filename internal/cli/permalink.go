package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/qfilter/internal/permalink"
)

func newPermalinkCmd(o *options) *cobra.Command {
	var (
		revision string
		commitID string
		loc      permalink.Location
	)
	cmd := &cobra.Command{
		Use:   "permalink [url]",
		Short: "Build a permalink pinned to a commit",
		Long: `Permalink rewrites a repository page URL so its revision is the full
commit ID, and also prints the link with the revision as given.

Without a URL, --repo, --commit and optionally --path/--line build a
blob link directly. permalink.base_url in the config prefixes the output.

Example:
  qfilter permalink /github.com/a/b@main/-/blob/x.go --revision main --commit 4d3c2b1
  qfilter permalink --repo github.com/a/b --commit 4d3c2b1 --path x.go --line 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := o.cfg.Link.BaseURL

			if len(args) == 0 {
				loc.CommitID = commitID
				link, err := permalink.Build(loc)
				if err != nil {
					return err
				}
				link = permalink.WithBase(base, link)
				return render(cmd.OutOrStdout(), o.cfg.Output.Format, permalink.Links{Permalink: link, Link: link, Pinned: true}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, link)
					return err
				})
			}

			if commitID == "" {
				return errors.New("--commit is required")
			}
			links, err := permalink.LinksFor(args[0], revision, commitID)
			if err != nil {
				return err
			}
			links.Permalink = permalink.WithBase(base, links.Permalink)
			links.Link = permalink.WithBase(base, links.Link)

			return render(cmd.OutOrStdout(), o.cfg.Output.Format, links, func(w io.Writer) error {
				if links.Pinned {
					_, err := fmt.Fprintln(w, links.Permalink)
					return err
				}
				_, err := fmt.Fprintf(w, "permalink: %s\nlink:      %s\n", links.Permalink, links.Link)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&revision, "revision", "", "revision the page was opened at (branch, tag or commit)")
	cmd.Flags().StringVar(&commitID, "commit", "", "full commit ID the revision resolves to")
	cmd.Flags().StringVar(&loc.Repo, "repo", "", "repository name, when no URL is given")
	cmd.Flags().StringVar(&loc.Path, "path", "", "file path within the repository")
	cmd.Flags().IntVar(&loc.Line, "line", 0, "1-based line number")
	cmd.Flags().IntVar(&loc.Character, "char", 0, "1-based character on the line")
	cmd.Flags().IntVar(&loc.EndLine, "end-line", 0, "last line of a range")
	return cmd
}
