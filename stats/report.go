package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"lectern/internal/models"
	"lectern/internal/timeutil"
	"lectern/internal/ui"
)

const barChartChar = "▇"

const noDocumentsMsg = "No documents opened in the specified time range"

// Report renders the reading statistics for the terminal.
type Report struct {
	Tracker   *Tracker
	Documents []models.Document
	StartTime time.Time
	EndTime   time.Time
}

func formatMinutes(mins float64) string {
	hrs, m := timeutil.MinsToHoursAndMins(timeutil.Round(mins))
	if hrs == 0 {
		return fmt.Sprintf("%d mins", m)
	}

	return fmt.Sprintf("%d hrs %d mins", hrs, m)
}

// summary renders today's totals, the streak, and goal progress.
func (r *Report) summary() string {
	s := r.Tracker.Snapshot()

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n", ui.Blue("Summary")))
	b.WriteString(
		fmt.Sprintf(
			"Today: %s across %s sessions\n",
			ui.Green(formatMinutes(s.TodayMinutes)),
			ui.Green(s.SessionsToday),
		),
	)
	b.WriteString(
		fmt.Sprintf("All time: %s\n", ui.Green(formatMinutes(s.TotalMinutes))),
	)
	b.WriteString(fmt.Sprintf("Streak: %s days\n", ui.Green(s.Streak)))
	b.WriteString(
		fmt.Sprintf(
			"Daily goal: %s of %s (%s%%)\n",
			ui.Green(formatMinutes(s.TodayMinutes)),
			ui.Green(formatMinutes(float64(s.DailyGoal))),
			ui.Green(timeutil.Round(r.Tracker.GoalProgress())),
		),
	)

	return b.String()
}

// weeklyChart renders the per-weekday minute buckets as a horizontal
// bar chart.
func (r *Report) weeklyChart() string {
	s := r.Tracker.Snapshot()

	header := ui.Blue("\nWeekly breakdown (minutes)")

	var bars pterm.Bars

	for i, mins := range s.WeeklyData {
		bars = append(bars, pterm.Bar{
			Value: timeutil.Round(mins),
			Label: time.Weekday(i).String(),
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return header + chart
}

// recentDocuments renders the documents opened within the reporting
// period, most recent first.
func (r *Report) recentDocuments(w io.Writer) {
	var recent []models.Document

	for i := range r.Documents {
		doc := r.Documents[i]

		if doc.LastOpened.IsZero() || doc.LastOpened.Before(r.StartTime) ||
			doc.LastOpened.After(r.EndTime) {
			continue
		}

		recent = append(recent, doc)
	}

	if len(recent) == 0 {
		fmt.Fprintln(w, noDocumentsMsg)
		return
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastOpened.After(recent[j].LastOpened)
	})

	data := [][]string{
		{"#", "NAME", "PAGE", "PROGRESS", "TIME SPENT", "LAST OPENED"},
	}

	for i, doc := range recent {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			doc.Name,
			fmt.Sprintf("%d/%d", doc.CurrentPage, doc.PageCount),
			fmt.Sprintf("%d%%", timeutil.Round(doc.Progress)),
			formatMinutes(doc.TotalTime),
			doc.LastOpened.Format("Jan 02, 2006 03:04 PM"),
		})
	}

	ui.PrintTable(data, w)
}

// Render writes the full statistics report.
func (r *Report) Render(w io.Writer) {
	reportingStart := r.StartTime.Format("January 02, 2006")
	reportingEnd := r.EndTime.Format("January 02, 2006")
	timePeriod := "Reporting period: " + reportingStart + " - " + reportingEnd

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("%s", timePeriod)

	output := fmt.Sprint(
		header,
		r.summary(),
		r.weeklyChart(),
	)

	fmt.Fprintln(w, strings.TrimSpace(output))
	fmt.Fprintln(w)

	r.recentDocuments(w)
}

// ToJSON returns the stats snapshot in JSON form.
func (r *Report) ToJSON() ([]byte, error) {
	return json.Marshal(r.Tracker.Snapshot())
}
