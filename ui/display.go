package ui

import (
	"fmt"
	"strings"

	"cutplot/models"
	"cutplot/utils"
)

// ANSI color codes for terminal output
const (
	ColorReset   = "\033[0m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
)

// Color helper functions
func ColorTitle(text string) string     { return ColorCyan + ColorBold + text + ColorReset }
func ColorSuccess(text string) string   { return ColorGreen + ColorBold + text + ColorReset }
func ColorError(text string) string     { return ColorRed + ColorBold + text + ColorReset }
func ColorWarning(text string) string   { return ColorYellow + text + ColorReset }
func ColorInfo(text string) string      { return ColorWhite + text + ColorReset }
func ColorSection(text string) string   { return ColorBlue + ColorBold + text + ColorReset }
func ColorHighlight(text string) string { return ColorCyan + text + ColorReset }
func ColorDimText(text string) string   { return ColorDim + ColorWhite + text + ColorReset }
func ColorListItem(text string) string  { return ColorGreen + text + ColorReset }

// PrintBanner displays the application banner
func PrintBanner() {
	fmt.Println(ColorTitle("    ╔══════════════════════════════════════════════════╗"))
	fmt.Print(ColorTitle("    ║  CutPlot "))
	fmt.Print(ColorHighlight(models.Version))
	fmt.Println(ColorTitle("                                    ║"))
	fmt.Print(ColorTitle("    ║  "))
	fmt.Print(ColorInfo("Terminal G-code editor and job sender           "))
	fmt.Println(ColorTitle("║"))
	fmt.Print(ColorTitle("    ║  "))
	fmt.Print(ColorInfo("for vector cutter and plotter backends          "))
	fmt.Println(ColorTitle("║"))
	fmt.Println(ColorTitle("    ╚══════════════════════════════════════════════════╝"))
}

// PrintSectionHeader prints a formatted section header
func PrintSectionHeader(title string) {
	headerContent := fmt.Sprintf("─ %s", title)
	remainingWidth := 60 - len(headerContent)
	if remainingWidth < 0 {
		remainingWidth = 0
	}
	dashLine := strings.Repeat("─", remainingWidth)
	fmt.Printf(ColorSection("┌%s%s┐\n"), headerContent, dashLine)
}

// PrintSectionFooter prints a formatted section footer
func PrintSectionFooter() {
	dashLine := strings.Repeat("─", 59)
	fmt.Printf(ColorSection("└%s┘\n"), dashLine)
}

// PrintJobOutcome reports one dispatched action the way the TUI's
// activity pane would.
func PrintJobOutcome(rec models.JobRecord) {
	label := fmt.Sprintf("%s %s", rec.Action, rec.FileName)
	if rec.OK {
		fmt.Printf("  %s %s\n", ColorSuccess("ok"), ColorInfo(label))
	} else {
		fmt.Printf("  %s %s\n", ColorError("failed"), ColorInfo(label))
	}
	if rec.Detail != "" {
		fmt.Printf("    %s\n", ColorDimText(rec.Detail))
	}
}

// PrintValidationFindings renders the server's lint verdict.
func PrintValidationFindings(resp models.ValidateResponse) {
	if resp.Valid {
		fmt.Printf("  %s (%s lines)\n", ColorSuccess("valid"), ColorHighlight(utils.FormatNumber(resp.LineCount)))
	} else {
		fmt.Printf("  %s (%s lines)\n", ColorError("invalid"), ColorHighlight(utils.FormatNumber(resp.LineCount)))
	}
	for _, e := range resp.Errors {
		fmt.Printf("    %s %s\n", ColorError("error:"), ColorInfo(e))
	}
	for _, w := range resp.Warnings {
		fmt.Printf("    %s %s\n", ColorWarning("warning:"), ColorInfo(w))
	}
}

// PrintHistory lists job records, newest first.
func PrintHistory(jobs []models.JobRecord) {
	if len(jobs) == 0 {
		fmt.Println(ColorDimText("  no jobs recorded yet"))
		return
	}
	for _, job := range jobs {
		status := ColorSuccess("ok")
		if !job.OK {
			status = ColorError("failed")
		}
		fmt.Printf("  %s  %-12s %-24s %s\n",
			ColorDimText(job.When.Format("2006-01-02 15:04:05")),
			job.Action,
			utils.TruncateString(job.FileName, 24),
			status)
		if job.Detail != "" {
			fmt.Printf("      %s\n", ColorDimText(utils.TruncateString(job.Detail, 70)))
		}
	}
}
