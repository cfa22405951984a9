package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	entryUC "daybook/internal/usecase/entry"
)

type addOptions struct {
	title string
	body  string
	at    string
}

func newAddCmd(a *app) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write a new entry",
		Example: `  diaryctl add --title "Harbour" --body "ferries at dusk"
  diaryctl add --title "Trip" --body "..." --at 2024-03-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.title, "title", "t", "", "entry title")
	f.StringVarP(&opts.body, "body", "b", "", "entry body")
	f.StringVar(&opts.at, "at", "", "back-date the entry (RFC3339 or 2006-01-02)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

// parseAt accepts a full RFC3339 timestamp or a bare date, which means local
// midnight in loc.
func parseAt(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be RFC3339 or 2006-01-02, got %q", s)
	}
	return t, nil
}

func runAdd(cmd *cobra.Command, a *app, opts *addOptions) error {
	createdAt, err := parseAt(opts.at, a.cfg.Location())
	if err != nil {
		return err
	}

	svc := &entryUC.Service{Repo: a.stores.Records, Index: a.stores.Index}
	e, err := svc.Create(cmd.Context(), entryUC.CreateInput{
		Title:     opts.title,
		Body:      opts.body,
		CreatedAt: createdAt,
	})
	if err != nil {
		return fmt.Errorf("add entry: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "created entry %d at %s\n", e.ID, e.CreatedAt.In(a.cfg.Location()).Format(time.RFC3339))
	return err
}
