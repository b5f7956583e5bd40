package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	transitlos "github.com/theoremus-urban-solutions/transit-los"
	"github.com/theoremus-urban-solutions/transit-los/config"
	"github.com/theoremus-urban-solutions/transit-los/loader"
	"github.com/theoremus-urban-solutions/transit-los/session"
	"github.com/theoremus-urban-solutions/transit-los/utils"
)

var (
	classifyFeed  string
	classifyStart string
	classifyEnd   string
	classifyJSON  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify [source]",
	Short: "Print the route list with the LOS of every trip",
	Long: `Classify a GeoJSON feature collection or a GTFS zip (URL or path), or a feed
from the config with --feed, and print routes in list order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Config
		srv, err := transitlos.NewServer(cfg, logger)
		if err != nil {
			return err
		}

		feed, err := classifySource(args)
		if err != nil {
			return err
		}
		fetcher := loader.NewFetcher(cfg.LoaderTimeout())
		fc, err := transitlos.LoadFeed(cmd.Context(), fetcher, feed, cfg.Weekday())
		if err != nil {
			return err
		}

		sess := srv.NewSession()
		if classifyStart != "" || classifyEnd != "" {
			if err := setClockWindow(sess, classifyStart, classifyEnd); err != nil {
				return err
			}
		}
		report := sess.Ingest(fc)
		for _, de := range report.Rejected {
			logger.Sugar().Warnf("skipped %v", de)
		}

		out := cmd.OutOrStdout()
		if classifyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sess.Routes())
		}
		printRoutes(out, sess)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFeed, "feed", "f", "", "feed name from config.feeds[]")
	classifyCmd.Flags().StringVar(&classifyStart, "start", "", "window start, HH:MM (default from config)")
	classifyCmd.Flags().StringVar(&classifyEnd, "end", "", "window end, HH:MM (default from config)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the route list as JSON")
}

func classifySource(args []string) (config.Feed, error) {
	if len(args) == 1 {
		if strings.HasSuffix(strings.ToLower(args[0]), ".zip") {
			return config.Feed{Name: args[0], GTFS: args[0]}, nil
		}
		return config.Feed{Name: args[0], GeoJSON: args[0]}, nil
	}
	feed, ok := config.SelectFeed(classifyFeed)
	if !ok {
		return config.Feed{}, fmt.Errorf("no source given and no feeds configured")
	}
	if classifyFeed != "" && feed.Name != classifyFeed {
		return config.Feed{}, fmt.Errorf("unknown feed %q", classifyFeed)
	}
	return feed, nil
}

func setClockWindow(sess *session.Session, start, end string) error {
	w := sess.Window()
	var err error
	if start != "" {
		if w.Start, err = utils.ParseClock(start); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}
	if end != "" {
		if w.End, err = utils.ParseClock(end); err != nil {
			return fmt.Errorf("--end: %w", err)
		}
	}
	return sess.SetWindow(w)
}

func printRoutes(out io.Writer, sess *session.Session) {
	w := sess.Window()
	fmt.Fprintf(out, "Window %s - %s, %d routes, %d trips\n\n",
		utils.SecondsToClock(w.Start), utils.SecondsToClock(w.End), sess.RouteCount(), sess.Len())
	for _, r := range sess.Routes() {
		fmt.Fprintf(out, "%s\n", r.Name)
		for _, trips := range [][]session.TripView{r.Inbound, r.Outbound} {
			for _, t := range trips {
				headway := "-"
				if t.Headway != nil {
					headway = fmt.Sprintf("%.1f min", *t.Headway/60)
				}
				fmt.Fprintf(out, "  %-8s %-32s %-12s %-10s %3d dep  %s\n",
					t.Direction, t.Label, t.LOSLabel, headway, t.Departures, t.ServiceHours)
			}
		}
	}
}
