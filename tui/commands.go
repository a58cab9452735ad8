package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cutplot/cache"
	"cutplot/client"
	"cutplot/gcode"
	"cutplot/history"
	"cutplot/models"
	"cutplot/threemf"
	"cutplot/utils"
)

// FileLoadedMsg is the outcome of reading a file for the editor.
// Size and ModTime describe the on-disk state the content reflects.
type FileLoadedMsg struct {
	Path    string
	Name    string
	Content string
	Size    int64
	ModTime time.Time
	Err     error
}

// SaveResult is the outcome of writing the editor buffer to disk
type SaveResult struct {
	Path    string
	Size    int64
	ModTime time.Time
	Err     error
}

// SendPackageResult is the outcome of package-and-print
type SendPackageResult struct {
	Filename string
	Lines    int
	Dur      time.Duration
	Err      error
}

// SendRawResult is the outcome of a line-by-line send
type SendRawResult struct {
	SentCount int
	Lines     int
	Dur       time.Duration
	Err       error
}

// PackageResult is the outcome of a package download
type PackageResult struct {
	SavedPath string
	Size      int64
	Summary   threemf.Summary
	Dur       time.Duration
	Err       error
}

// ConvertResult is the outcome of a vector conversion
type ConvertResult struct {
	SourceName  string
	DerivedName string
	GCode       string
	LineCount   int
	FromCache   bool
	Dur         time.Duration
	Err         error
}

// ValidateResult is the outcome of the server-side lint
type ValidateResult struct {
	Resp models.ValidateResponse
	Dur  time.Duration
	Err  error
}

// FormatResult is the outcome of a server-side reflow
type FormatResult struct {
	Formatted string
	Dur       time.Duration
	Err       error
}

// StatusResult reports backend reachability
type StatusResult struct {
	Connected bool
}

// FileChangedMsg reports that the loaded file changed on disk
type FileChangedMsg struct {
	Path string
}

func recordJob(store *history.Store, action, fileName string, lines int, err error) {
	if store == nil {
		return
	}
	rec := models.JobRecord{
		Action:    action,
		FileName:  fileName,
		LineCount: lines,
		OK:        err == nil,
	}
	if err != nil {
		rec.Detail = err.Error()
	}
	store.AddJob(rec)
}

// loadFileCmd reads a file for the editor, screening the extension
func loadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if !gcode.IsEditorFile(path) {
			return FileLoadedMsg{
				Path: path,
				Err:  fmt.Errorf("unsupported file type: %s (need .gcode, .nc, or .txt)", filepath.Base(path)),
			}
		}

		content, err := utils.ReadTextFile(path)
		if err != nil {
			return FileLoadedMsg{Path: path, Err: err}
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		msg := FileLoadedMsg{Path: abs, Name: filepath.Base(path), Content: content}
		if info, err := os.Stat(abs); err == nil {
			msg.Size = info.Size()
			msg.ModTime = info.ModTime()
		}
		return msg
	}
}

// saveFileCmd writes content to path
func saveFileCmd(path, content string) tea.Cmd {
	return func() tea.Msg {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return SaveResult{Path: path, Err: fmt.Errorf("save failed: %w", err)}
		}
		res := SaveResult{Path: path, Size: int64(len(content))}
		if abs, err := filepath.Abs(path); err == nil {
			res.Path = abs
		}
		if info, err := os.Stat(path); err == nil {
			res.ModTime = info.ModTime()
		}
		return res
	}
}

// sendPackageCmd packages the buffer server-side and starts printing
func sendPackageCmd(api *client.Client, store *history.Store, text, filename string) tea.Cmd {
	return func() tea.Msg {
		lines := gcode.LineCount(text)
		start := time.Now()
		resp, err := api.SendPackage(text, filename)
		recordJob(store, models.ActionSendPackage, filename, lines, err)
		if err != nil {
			return SendPackageResult{Lines: lines, Dur: time.Since(start), Err: err}
		}
		return SendPackageResult{Filename: resp.Filename, Lines: lines, Dur: time.Since(start)}
	}
}

// sendRawCmd streams the buffer to the printer unpackaged
func sendRawCmd(api *client.Client, store *history.Store, text, filename string) tea.Cmd {
	return func() tea.Msg {
		lines := gcode.LineCount(text)
		start := time.Now()
		resp, err := api.SendRaw(text)
		recordJob(store, models.ActionSendRaw, filename, lines, err)
		if err != nil {
			return SendRawResult{Lines: lines, Dur: time.Since(start), Err: err}
		}
		return SendRawResult{SentCount: resp.SentCount, Lines: lines, Dur: time.Since(start)}
	}
}

// downloadPackageCmd fetches the 3MF and writes it next to the editor's
// file, refusing bodies that are not an archive
func downloadPackageCmd(api *client.Client, store *history.Store, text, filename, outPath string) tea.Cmd {
	return func() tea.Msg {
		lines := gcode.LineCount(text)
		start := time.Now()

		data, err := api.CreatePackage(text, filename)
		if err != nil {
			recordJob(store, models.ActionDownload, filename, lines, err)
			return PackageResult{Dur: time.Since(start), Err: err}
		}

		summary, err := threemf.Summarize(data)
		if err != nil {
			err = fmt.Errorf("server reply is not a usable package: %w", err)
			recordJob(store, models.ActionDownload, filename, lines, err)
			return PackageResult{Dur: time.Since(start), Err: err}
		}

		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			err = fmt.Errorf("write package: %w", err)
			recordJob(store, models.ActionDownload, filename, lines, err)
			return PackageResult{Dur: time.Since(start), Err: err}
		}

		recordJob(store, models.ActionDownload, filename, lines, nil)
		return PackageResult{
			SavedPath: outPath,
			Size:      int64(len(data)),
			Summary:   summary,
			Dur:       time.Since(start),
		}
	}
}

// convertCmd uploads a vector drawing, answering from the conversion
// cache when the file is unchanged
func convertCmd(api *client.Client, store *history.Store, convs *cache.ConvertCache, path string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		name := filepath.Base(path)

		fileType, err := gcode.VectorType(path)
		if err != nil {
			return ConvertResult{SourceName: name, Dur: time.Since(start), Err: err}
		}

		var key string
		if convs != nil {
			if k, err := cache.Key(path); err == nil {
				key = k
				if resp, ok := convs.Get(k); ok {
					return ConvertResult{
						SourceName:  sourceName(resp, name),
						DerivedName: gcode.DeriveName(sourceName(resp, name)),
						GCode:       resp.GCode,
						LineCount:   resp.LineCount,
						FromCache:   true,
						Dur:         time.Since(start),
					}
				}
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return ConvertResult{SourceName: name, Dur: time.Since(start), Err: fmt.Errorf("read drawing: %w", err)}
		}

		resp, err := api.Convert(name, content, fileType)
		recordJob(store, models.ActionConvert, name, resp.LineCount, err)
		if err != nil {
			return ConvertResult{SourceName: name, Dur: time.Since(start), Err: err}
		}

		if convs != nil && key != "" {
			convs.Put(key, resp)
		}

		src := sourceName(resp, name)
		return ConvertResult{
			SourceName:  src,
			DerivedName: gcode.DeriveName(src),
			GCode:       resp.GCode,
			LineCount:   resp.LineCount,
			Dur:         time.Since(start),
		}
	}
}

func sourceName(resp models.ConvertResponse, fallback string) string {
	if resp.OriginalFilename != "" {
		return resp.OriginalFilename
	}
	return fallback
}

// validateCmd runs the server-side lint on the buffer
func validateCmd(api *client.Client, store *history.Store, text, filename string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		resp, err := api.Validate(text)
		recordJob(store, models.ActionValidate, filename, gcode.LineCount(text), err)
		return ValidateResult{Resp: resp, Dur: time.Since(start), Err: err}
	}
}

// formatCmd asks the server to reflow the buffer
func formatCmd(api *client.Client, store *history.Store, text, filename string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		formatted, err := api.Format(text)
		recordJob(store, models.ActionFormat, filename, gcode.LineCount(text), err)
		return FormatResult{Formatted: formatted, Dur: time.Since(start), Err: err}
	}
}

// statusCmd probes backend reachability once
func statusCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		ok, err := api.Status()
		return StatusResult{Connected: ok && err == nil}
	}
}
