package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"daybook/internal/domain/entity"
	"daybook/internal/handler/http/diary"
	"daybook/internal/usecase/browse"
)

type pageOptions struct {
	month string
	date  string
	id    int64
	query string
	page  int
	limit int
	json  bool
}

func newPageCmd(a *app) *cobra.Command {
	opts := &pageOptions{}
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Show one page of entries",
		Long: `Shows one page of entries and where the previous and next pages are.
Without a selector every entry is paged in chronological order.`,
		Example: `  diaryctl page --month 2024-03 --page 2
  diaryctl page --date 2024-03-05
  diaryctl page --id 7
  diaryctl page --query "rain river"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.month, "month", "", "month to show (2006-01)")
	f.StringVar(&opts.date, "date", "", "day to show (2006-01-02)")
	f.Int64Var(&opts.id, "id", 0, "single entry to show")
	f.StringVarP(&opts.query, "query", "q", "", "keywords every entry must contain")
	f.IntVarP(&opts.page, "page", "p", 1, "page index, starting at 1")
	f.IntVarP(&opts.limit, "limit", "n", 0, "entries per page (default from settings)")
	f.BoolVar(&opts.json, "json", false, "print the page as JSON")
	cmd.MarkFlagsMutuallyExclusive("month", "date", "id", "query")
	return cmd
}

func (o *pageOptions) condition(cmd *cobra.Command) (entity.Condition, error) {
	switch {
	case cmd.Flags().Changed("month"):
		return entity.ParseYearMonth(o.month)
	case cmd.Flags().Changed("date"):
		return entity.ParseDate(o.date)
	case cmd.Flags().Changed("id"):
		return entity.ByID{ID: o.id}, nil
	case cmd.Flags().Changed("query"):
		return entity.Keywords(o.query), nil
	default:
		return entity.All{}, nil
	}
}

func runPage(cmd *cobra.Command, a *app, opts *pageOptions) error {
	cond, err := opts.condition(cmd)
	if err != nil {
		return err
	}

	svc := &browse.Service{
		Search:   a.stores.Index,
		Records:  a.stores.Records,
		PageSize: a.cfg.Browse.PageSize,
		Location: a.cfg.Location(),
	}
	page, err := svc.Paginate(cmd.Context(), cond, opts.page, opts.limit)
	if err != nil {
		return fmt.Errorf("page %s: %w", cond, err)
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(diary.NewPageDTO(page))
	}
	printPage(cmd.OutOrStdout(), page, a)
	return nil
}

func printPage(w io.Writer, p *entity.Page, a *app) {
	loc := a.cfg.Location()
	fmt.Fprintf(w, "%s  page %d\n", p.Condition, p.Index)
	if len(p.Entries) == 0 {
		fmt.Fprintln(w, "  (no entries)")
	}
	for _, e := range p.Entries {
		fmt.Fprintf(w, "  #%-5d %s  %s\n", e.ID, e.CreatedAt.In(loc).Format("2006-01-02 15:04"), e.Title)
	}
	fmt.Fprintf(w, "prev: %s\n", describe(p.Prev))
	fmt.Fprintf(w, "next: %s\n", describe(p.Next))
}

func describe(adj entity.Adjacent) string {
	if i, ok := adj.PageIndex(); ok {
		return fmt.Sprintf("page %d", i)
	}
	if c, ok := adj.Condition(); ok {
		return c.String()
	}
	return "-"
}
