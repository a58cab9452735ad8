package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"cutplot/cache"
	"cutplot/client"
	"cutplot/gcode"
	"cutplot/history"
	"cutplot/models"
	"cutplot/threemf"
	"cutplot/tui"
	"cutplot/ui"
	"cutplot/utils"
)

func usage() {
	fmt.Fprintf(os.Stderr, `%s %s
Terminal G-code editor and job sender for vector cutter backends

Usage:
  cutplot [flags] [file.gcode]             Open the editor
  cutplot [flags] send     <file.gcode>    Package the file and start printing
  cutplot [flags] raw      <file.gcode>    Send line-by-line without packaging
  cutplot [flags] pack     <file.gcode> [out.3mf]    Download the print package
  cutplot [flags] convert  <file.svg|dxf> [out.gcode]  Convert a drawing
  cutplot [flags] validate <file.gcode>    Run the server-side lint
  cutplot [flags] format   <file.gcode> [-w]   Reflow, -w rewrites the file
  cutplot [flags] status                   Probe the backend
  cutplot [flags] history [export <file.yaml>]   List or export past jobs
  cutplot version | help

Flags:
`, models.AppName, models.Version)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  cutplot part.gcode
  cutplot send part.gcode
  cutplot convert logo.svg
  cutplot -server http://bench:5425 status
`)
}

func main() {
	var (
		serverFlag  = flag.String("server", "", "Print server URL (overrides the config file)")
		configFlag  = flag.String("config", "", "Path to a cutplot config file")
		timeoutFlag = flag.Duration("timeout", 0, "HTTP timeout (overrides the config file)")
		versionFlag = flag.Bool("version", false, "Print version and exit")
	)

	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s %s\n", models.AppName, models.Version)
		return
	}

	cfg, err := models.LoadConfig(*configFlag)
	if err != nil {
		fmt.Println(ui.ColorError("Error: " + err.Error()))
		os.Exit(1)
	}
	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}
	if *timeoutFlag > 0 {
		cfg.RequestTimeout = *timeoutFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(ui.ColorError("Error: " + err.Error()))
		os.Exit(1)
	}

	api := client.New(cfg.ServerURL, cfg.RequestTimeout)

	args := flag.Args()
	cmd := ""
	if len(args) > 0 {
		cmd = strings.ToLower(args[0])
		args = args[1:]
	}

	var runErr error
	switch cmd {
	case "help", "-h", "--help":
		ui.PrintBanner()
		fmt.Println()
		usage()
	case "version":
		fmt.Printf("%s %s\n", models.AppName, models.Version)
	case "":
		if !cfg.TUI {
			usage()
			os.Exit(1)
		}
		runErr = runTUI(cfg, api, "")
	case "send":
		runErr = cmdSend(cfg, api, requireFile(args))
	case "raw":
		runErr = cmdRaw(cfg, api, requireFile(args))
	case "pack":
		runErr = cmdPack(cfg, api, requireFile(args), optionalArg(args, 1))
	case "convert":
		runErr = cmdConvert(cfg, api, requireFile(args), optionalArg(args, 1))
	case "validate":
		runErr = cmdValidate(cfg, api, requireFile(args))
	case "format":
		runErr = cmdFormat(cfg, api, requireFile(args), hasFlag(args, "-w"))
	case "status":
		runErr = cmdStatus(api)
	case "history":
		runErr = cmdHistory(cfg, args)
	default:
		// A bare file argument opens the editor on that file
		if gcode.IsEditorFile(cmd) {
			runErr = runTUI(cfg, api, flag.Args()[0])
			break
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if runErr != nil {
		printError(runErr)
		os.Exit(1)
	}
}

// requireFile returns the file argument, prompting for one when the
// command line omits it and a terminal is attached
func requireFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		if path := ui.PromptInput("Enter file path", ""); path != "" {
			return path
		}
	}
	fmt.Fprintln(os.Stderr, "Error: file path required")
	usage()
	os.Exit(1)
	return ""
}

func optionalArg(args []string, idx int) string {
	if len(args) > idx && !strings.HasPrefix(args[idx], "-") {
		return args[idx]
	}
	return ""
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

// printError renders a final error, keeping server-reported messages
// verbatim and transport problems generic
func printError(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(ui.ColorError(fmt.Sprintf("The server rejected %s (status %d)", apiErr.Endpoint, apiErr.Status)))
		for _, msg := range apiErr.Messages {
			fmt.Println(ui.ColorInfo("  - " + msg))
		}
		return
	}
	fmt.Println(ui.ColorError("Error: " + err.Error()))
}

// readBuffer loads a G-code file for a headless action, applying the
// same screening the editor does
func readBuffer(path string) (string, error) {
	if !gcode.IsEditorFile(path) {
		return "", fmt.Errorf("unsupported file type: %s (need %s)",
			filepath.Base(path), strings.Join(gcode.EditorExtensions, ", "))
	}
	text, err := utils.ReadTextFile(path)
	if err != nil {
		return "", err
	}
	if gcode.IsBlank(text) {
		return "", fmt.Errorf("%s is empty, nothing to send", filepath.Base(path))
	}
	return text, nil
}

// openStore opens the job history database, degrading to no recording
// when it is unavailable
func openStore(cfg models.Config) *history.Store {
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		fmt.Println(ui.ColorWarning("history disabled: " + err.Error()))
		return nil
	}
	return store
}

// record appends a job record and returns it for display
func record(store *history.Store, action, fileName string, lines int, err error) models.JobRecord {
	rec := models.JobRecord{
		Action:    action,
		FileName:  fileName,
		LineCount: lines,
		OK:        err == nil,
	}
	if err != nil {
		rec.Detail = err.Error()
	}
	if store != nil {
		if stored, serr := store.AddJob(rec); serr == nil {
			return stored
		}
	}
	return rec
}

func runTUI(cfg models.Config, api *client.Client, startFile string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the editor needs a terminal, run '%s help' for headless commands", models.AppName)
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	convs := cache.NewConvertCache(cfg.CacheTTL, 32)
	defer convs.Close()

	return tui.Run(cfg, api, store, convs, startFile)
}

func cmdSend(cfg models.Config, api *client.Client, path string) error {
	text, err := readBuffer(path)
	if err != nil {
		return err
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	name := filepath.Base(path)
	fmt.Printf(ui.ColorInfo("Packaging %s for printing...\n"), ui.ColorHighlight(gcode.PackageName(name)))

	resp, err := api.SendPackage(text, name)
	rec := record(store, models.ActionSendPackage, name, gcode.LineCount(text), err)
	if err != nil {
		return err
	}

	ui.PrintJobOutcome(rec)
	printed := resp.Filename
	if printed == "" {
		printed = gcode.PackageName(name)
	}
	fmt.Printf(ui.ColorSuccess("Printing %s (%s lines)\n"),
		ui.ColorHighlight(printed), ui.ColorHighlight(utils.FormatNumber(rec.LineCount)))
	return nil
}

func cmdRaw(cfg models.Config, api *client.Client, path string) error {
	text, err := readBuffer(path)
	if err != nil {
		return err
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	name := filepath.Base(path)
	fmt.Printf(ui.ColorInfo("Sending %s line by line...\n"), ui.ColorHighlight(name))

	resp, err := api.SendRaw(text)
	rec := record(store, models.ActionSendRaw, name, gcode.LineCount(text), err)
	if err != nil {
		return err
	}

	ui.PrintJobOutcome(rec)
	sent := resp.SentCount
	if sent == 0 {
		sent = rec.LineCount
	}
	fmt.Printf(ui.ColorSuccess("Sent %s lines\n"), ui.ColorHighlight(utils.FormatNumber(sent)))
	return nil
}

func cmdPack(cfg models.Config, api *client.Client, path, outPath string) error {
	text, err := readBuffer(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(path), gcode.PackageName(name))
	}

	if _, err := os.Stat(outPath); err == nil {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("%s already exists, pass a different output name", outPath)
		}
		if !ui.Confirm(fmt.Sprintf("%s already exists. Overwrite?", outPath)) {
			return fmt.Errorf("refusing to overwrite %s", outPath)
		}
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	fmt.Printf(ui.ColorInfo("Requesting package for %s...\n"), ui.ColorHighlight(name))

	data, err := api.CreatePackage(text, name)
	if err != nil {
		record(store, models.ActionDownload, name, gcode.LineCount(text), err)
		return err
	}

	sum, err := threemf.Summarize(data)
	if err != nil {
		err = fmt.Errorf("server reply is not a usable package: %w", err)
		record(store, models.ActionDownload, name, gcode.LineCount(text), err)
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		err = fmt.Errorf("write package: %w", err)
		record(store, models.ActionDownload, name, gcode.LineCount(text), err)
		return err
	}

	rec := record(store, models.ActionDownload, name, gcode.LineCount(text), nil)
	ui.PrintJobOutcome(rec)
	fmt.Printf(ui.ColorSuccess("Saved %s (%s)\n"),
		ui.ColorHighlight(outPath), ui.ColorHighlight(utils.FormatFileSize(int64(len(data)))))
	fmt.Println(ui.ColorDimText("  " + sum.String()))
	return nil
}

func cmdConvert(cfg models.Config, api *client.Client, path, outPath string) error {
	fileType, err := gcode.VectorType(path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read drawing: %w", err)
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	name := filepath.Base(path)
	fmt.Printf(ui.ColorInfo("Converting %s (%s)...\n"), ui.ColorHighlight(name), fileType)

	resp, err := api.Convert(name, content, fileType)
	rec := record(store, models.ActionConvert, name, resp.LineCount, err)
	if err != nil {
		return err
	}

	src := name
	if resp.OriginalFilename != "" {
		src = resp.OriginalFilename
	}
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(path), gcode.DeriveName(src))
	}
	if err := os.WriteFile(outPath, []byte(resp.GCode), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	ui.PrintJobOutcome(rec)
	fmt.Printf(ui.ColorSuccess("Wrote %s (%s lines)\n"),
		ui.ColorHighlight(outPath), ui.ColorHighlight(utils.FormatNumber(resp.LineCount)))
	return nil
}

func cmdValidate(cfg models.Config, api *client.Client, path string) error {
	text, err := readBuffer(path)
	if err != nil {
		return err
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	name := filepath.Base(path)
	resp, err := api.Validate(text)
	record(store, models.ActionValidate, name, gcode.LineCount(text), err)
	if err != nil {
		return err
	}

	ui.PrintValidationFindings(resp)
	if !resp.Valid {
		os.Exit(1)
	}
	return nil
}

func cmdFormat(cfg models.Config, api *client.Client, path string, write bool) error {
	text, err := readBuffer(path)
	if err != nil {
		return err
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	name := filepath.Base(path)
	formatted, err := api.Format(text)
	record(store, models.ActionFormat, name, gcode.LineCount(text), err)
	if err != nil {
		return err
	}

	if write {
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("rewrite %s: %w", path, err)
		}
		fmt.Printf(ui.ColorSuccess("Reformatted %s (%s lines)\n"),
			ui.ColorHighlight(path), ui.ColorHighlight(utils.FormatNumber(gcode.LineCount(formatted))))
		return nil
	}

	fmt.Print(formatted)
	if !strings.HasSuffix(formatted, "\n") {
		fmt.Println()
	}
	return nil
}

func cmdStatus(api *client.Client) error {
	ok, err := api.Status()
	if err != nil || !ok {
		fmt.Printf("%s %s\n", ui.ColorError("offline"), ui.ColorDimText(api.BaseURL()))
		if err != nil {
			return err
		}
		os.Exit(1)
	}
	fmt.Printf("%s %s\n", ui.ColorSuccess("online"), ui.ColorDimText(api.BaseURL()))
	return nil
}

func cmdHistory(cfg models.Config, args []string) error {
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if len(args) > 0 && strings.ToLower(args[0]) == "export" {
		out := "cutplot-history.yaml"
		if len(args) > 1 {
			out = args[1]
		}
		if err := store.ExportYAML(out); err != nil {
			return err
		}
		fmt.Printf(ui.ColorSuccess("Exported job history to %s\n"), ui.ColorHighlight(out))
		return nil
	}

	ui.PrintSectionHeader("Job History")
	jobs, err := store.Jobs(50)
	if err != nil {
		return err
	}
	ui.PrintHistory(jobs)
	ui.PrintSectionFooter()

	recent, err := store.RecentFiles()
	if err == nil && len(recent) > 0 {
		fmt.Println()
		ui.PrintSectionHeader("Recent Files")
		for _, rf := range recent {
			fmt.Printf("  %s  %s\n",
				ui.ColorDimText(rf.OpenedAt.Format("2006-01-02 15:04")),
				ui.ColorInfo(rf.Path))
		}
		ui.PrintSectionFooter()
	}
	return nil
}
