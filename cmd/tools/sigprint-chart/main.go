// Command sigprint-chart renders a static HTML line chart of coherence and
// entropy over one recorded session, read from a sigprint-bridge database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/neuralbridge/sigprint-core/internal/sigprintdb"
)

var (
	dbPath    = flag.String("db", "sigprint.db", "SQLite database produced by sigprint-bridge")
	sessionID = flag.String("session", "", "Session id to chart (required)")
	outPath   = flag.String("out", "sigprint-report.html", "Output HTML path")
)

func main() {
	flag.Parse()

	if *sessionID == "" {
		log.Fatal("-session is required")
	}

	db, err := sigprintdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	summary, err := db.LoadSession(*sessionID)
	if err != nil {
		log.Fatalf("failed to load session: %v", err)
	}
	if len(summary.TimestampMs) == 0 {
		log.Fatalf("no packets recorded for session %q", *sessionID)
	}

	xAxis := make([]string, len(summary.TimestampMs))
	coherencePoints := make([]opts.LineData, len(summary.Coherence))
	entropyPoints := make([]opts.LineData, len(summary.Entropy))
	for i, ts := range summary.TimestampMs {
		xAxis[i] = fmt.Sprintf("%dms", ts)
		coherencePoints[i] = opts.LineData{Value: summary.Coherence[i]}
		entropyPoints[i] = opts.LineData{Value: summary.Entropy[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "SIGPRINT session report", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Coherence & entropy", Subtitle: fmt.Sprintf("session=%s points=%d", *sessionID, len(xAxis))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
	)
	line.SetXAxis(xAxis).
		AddSeries("coherence", coherencePoints).
		AddSeries("entropy", entropyPoints).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		log.Fatalf("failed to render chart: %v", err)
	}

	log.Printf("sigprint-chart: wrote %s", *outPath)
}
