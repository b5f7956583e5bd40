package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-los/config"
	"github.com/theoremus-urban-solutions/transit-los/gtfs"
	"github.com/theoremus-urban-solutions/transit-los/loader"
)

var (
	gtfsOutput  string
	gtfsStops   string
	gtfsWeekday string
	gtfsRoutes  []string
	gtfsExclude []string
)

var gtfs2geojsonCmd = &cobra.Command{
	Use:   "gtfs2geojson <gtfs.zip>",
	Short: "Convert a GTFS static feed into a trip feature collection",
	Long: `Build one LineString feature per route pattern (shape and direction) with the
first-stop arrival of every trip in trip_starts. The zip may be a URL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		var (
			index *gtfs.Index
			err   error
		)
		if loader.IsURL(source) {
			var data []byte
			data, err = loader.NewFetcher(config.Config.LoaderTimeout()).Fetch(cmd.Context(), source)
			if err != nil {
				return err
			}
			index, err = gtfs.NewIndexFromBytes(data)
		} else {
			index, err = gtfs.NewIndexFromFile(source)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}

		weekday := config.Config.Weekday()
		if gtfsWeekday != "" {
			var ok bool
			if weekday, ok = config.ParseWeekday(strings.ToLower(gtfsWeekday)); !ok {
				return fmt.Errorf("unknown weekday %q", gtfsWeekday)
			}
		}

		fc := index.Features(gtfs.Options{Weekday: weekday, Routes: gtfsRoutes, Exclude: gtfsExclude})
		if err := writeCollection(gtfsOutput, fc); err != nil {
			return err
		}
		logger.Info("Wrote route patterns",
			zap.String("output", gtfsOutput),
			zap.Int("features", len(fc.Features)),
			zap.String("weekday", weekday.String()))

		if gtfsStops != "" {
			stops := index.StopFeatures()
			if err := writeCollection(gtfsStops, stops); err != nil {
				return err
			}
			logger.Info("Wrote stops", zap.String("output", gtfsStops), zap.Int("features", len(stops.Features)))
		}
		return nil
	},
}

func init() {
	gtfs2geojsonCmd.Flags().StringVarP(&gtfsOutput, "output", "o", "", "GeoJSON output file (- for stdout)")
	gtfs2geojsonCmd.Flags().StringVar(&gtfsStops, "stops", "", "also write stops to this file")
	gtfs2geojsonCmd.Flags().StringVar(&gtfsWeekday, "weekday", "", "service day (default gtfs.weekday or monday)")
	gtfs2geojsonCmd.Flags().StringSliceVar(&gtfsRoutes, "route", nil, "only these route_ids")
	gtfs2geojsonCmd.Flags().StringSliceVar(&gtfsExclude, "exclude", nil, "skip these route_ids")
	_ = gtfs2geojsonCmd.MarkFlagRequired("output")
}

func writeCollection(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0644)
}
