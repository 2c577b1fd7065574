// fit-series decodes a local FIT file and prints the derived chart series
// summary. Handy for eyeballing what the dashboard would chart for a file
// without going through storage.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/redcap-42/runboard/pkg/domain/telemetry"
)

func main() {
	inputFile := flag.String("input", "", "Path to FIT file")
	verbose := flag.Bool("v", false, "Print every series point")
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	records, err := telemetry.Decode(data)
	if err != nil {
		log.Fatalf("Failed to decode FIT file: %v", err)
	}

	series := telemetry.DeriveSeries(records)
	track := telemetry.DeriveTrack(records)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "records\t%d\n", len(records))
	fmt.Fprintf(w, "pace points\t%d\n", len(series.Pace))
	fmt.Fprintf(w, "altitude points\t%d\n", len(series.Altitude))
	fmt.Fprintf(w, "heart rate points\t%d\n", len(series.HeartRate))
	fmt.Fprintf(w, "gps points\t%d\n", len(track))
	if n := len(series.Pace); n > 0 {
		first, last := series.Pace[0], series.Pace[n-1]
		fmt.Fprintf(w, "distance range\t%.3f - %.3f km\n", first.DistanceKm, last.DistanceKm)
	}
	w.Flush()

	if *verbose {
		for _, p := range series.Pace {
			fmt.Printf("%.3f km  %.1f s/km  %.2f m/s\n", p.DistanceKm, p.PaceSecondsPerKm, p.SpeedMps)
		}
	}
}
