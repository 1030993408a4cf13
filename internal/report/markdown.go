// Package report renders aggregate result tables into a markdown
// summary for the reporting layer, with optional HTML conversion.
package report

import (
	"fmt"
	"sort"
	"strings"

	"cycleshare/app"
	"cycleshare/domain/trip"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderMarkdown writes the result tables as a markdown document.
func RenderMarkdown(tables *app.ResultTables) string {
	var b strings.Builder

	b.WriteString("# Trip Aggregate Report\n\n")
	fmt.Fprintf(&b, "Total trips in canonical store: %d\n\n", tables.TotalTrips)

	b.WriteString("## Top Stations\n\n")
	for _, class := range trip.MemberClasses() {
		fmt.Fprintf(&b, "### %s\n\n", class)
		b.WriteString("| Station | Count |\n|---|---|\n")
		for _, sc := range tables.TopStations[class] {
			fmt.Fprintf(&b, "| %s | %d |\n", sc.Station, sc.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Rides per Month\n\n")
	b.WriteString("| Month | " + classHeader() + " |\n|---|---|---|\n")
	for m := 1; m <= 12; m++ {
		fmt.Fprintf(&b, "| %d |", m)
		for _, class := range trip.MemberClasses() {
			fmt.Fprintf(&b, " %d |", tables.Temporal[class].ByMonth[m])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Rides per Day of Week\n\n")
	b.WriteString("| Day (0=Sun) | " + classHeader() + " |\n|---|---|---|\n")
	for w := 0; w <= 6; w++ {
		fmt.Fprintf(&b, "| %d |", w)
		for _, class := range trip.MemberClasses() {
			fmt.Fprintf(&b, " %d |", tables.Temporal[class].ByDayOfWeek[w])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Rides per Hour\n\n")
	b.WriteString("| Hour | " + classHeader() + " |\n|---|---|---|\n")
	for h := 0; h <= 23; h++ {
		fmt.Fprintf(&b, "| %d |", h)
		for _, class := range trip.MemberClasses() {
			fmt.Fprintf(&b, " %d |", tables.Temporal[class].ByHour[h])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Ride Types\n\n")
	b.WriteString("| Type | " + classHeader() + " |\n|---|---|---|\n")
	for _, rideable := range rideTypeOrder(tables) {
		fmt.Fprintf(&b, "| %s |", rideable)
		for _, class := range trip.MemberClasses() {
			fmt.Fprintf(&b, " %d |", tables.RideTypes[class][rideable])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Electric Usage Rate\n\n")
	b.WriteString("| Class | Percent |\n|---|---|\n")
	for _, class := range trip.MemberClasses() {
		fmt.Fprintf(&b, "| %s | %.2f |\n", class, tables.ElectricRates[class])
	}
	b.WriteString("\n")

	b.WriteString("## Distance and Duration\n\n")
	b.WriteString("| Class | Mean distance (m) | Mean duration (min) |\n|---|---|---|\n")
	for _, class := range trip.MemberClasses() {
		fmt.Fprintf(&b, "| %s | %.1f | %.2f |\n",
			class, tables.Distance.MeanByClass[class], tables.Duration.MeanByClass[class])
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Outlier thresholds: distance p99 = %.1f m, duration p99 = %.2f min.\n",
		tables.DistanceP99, tables.DurationP99)

	return b.String()
}

// RenderHTML converts the markdown report to an HTML document.
func RenderHTML(tables *app.ResultTables) []byte {
	md := []byte(RenderMarkdown(tables))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	return markdown.Render(doc, renderer)
}

func classHeader() string {
	names := make([]string, 0, 2)
	for _, class := range trip.MemberClasses() {
		names = append(names, string(class))
	}
	return strings.Join(names, " | ")
}

func rideTypeOrder(tables *app.ResultTables) []trip.RideableType {
	seen := make(map[trip.RideableType]bool)
	var types []trip.RideableType
	for _, class := range trip.MemberClasses() {
		for rideable := range tables.RideTypes[class] {
			if !seen[rideable] {
				seen[rideable] = true
				types = append(types, rideable)
			}
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
