package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/avdeevlv/vitrina/internal/search"
)

// noopTimers is a search.TimerSource whose timers never fire. The one-shot
// search command drives the controller with an explicit Refresh instead of
// the interactive debounce.
type noopTimers struct{}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func (noopTimers) AfterFunc(time.Duration, func()) search.Timer { return noopTimer{} }

// NewSearchCommand runs one search through the real controller and prints
// the result set.
func NewSearchCommand(opts *RootOptions) *cobra.Command {
	var (
		categories []string
		brands     []string
		styles     []string
		pages      int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			updates := make(chan search.Snapshot, 16)
			ctrl := search.NewController(cmd.Context(), a.client,
				search.WithTimers(noopTimers{}),
				search.WithPageSize(opts.cfg.Search.PageSize),
				search.WithOnChange(func(s search.Snapshot) { updates <- s }))

			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			ctrl.SetFilters(search.Filters{Categories: categories, Brands: brands, Styles: styles})
			ctrl.SetQuery(query)
			ctrl.Refresh()

			fetched := 1
			var final search.Snapshot
			for snap := range updates {
				if snap.Loading {
					continue
				}
				if snap.Phase == search.PhaseResults && fetched < pages && !snap.Exhausted {
					fetched++
					ctrl.LoadMore()
					continue
				}
				final = snap
				break
			}

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if final.Phase == search.PhasePrompt {
				return f.Success(map[string]string{"phase": final.Phase.String()},
					"Введите запрос (минимум 2 символа) или выберите фильтры.")
			}
			data := map[string]any{
				"phase":     final.Phase.String(),
				"results":   final.Results,
				"exhausted": final.Exhausted,
			}
			return f.Success(data, renderCards(final.Results))
		},
	}

	cmd.Flags().StringArrayVar(&categories, "category", nil, "filter by category (repeatable)")
	cmd.Flags().StringArrayVar(&brands, "brand", nil, "filter by brand (repeatable)")
	cmd.Flags().StringArrayVar(&styles, "style", nil, "filter by style (repeatable)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to fetch")
	return cmd
}
