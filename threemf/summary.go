// Package threemf inspects downloaded 3MF packages. It never builds
// archives; packaging happens server-side.
package threemf

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"cutplot/utils"
)

const modelEntry = "3D/3dmodel.model"

// Summary describes what a downloaded package contains.
type Summary struct {
	Entries     int
	PayloadSize int64
	GCodeFiles  []string
	ModelUnit   string
	Title       string
}

type modelFile struct {
	XMLName  xml.Name    `xml:"model"`
	Unit     string      `xml:"unit,attr"`
	Metadata []modelMeta `xml:"metadata"`
}

type modelMeta struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Summarize opens data as a 3MF archive. Bytes that are not a zip
// archive fail, which is how a mislabeled server reply is caught
// before anything is written to disk.
func Summarize(data []byte) (Summary, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Summary{}, fmt.Errorf("not a 3mf package: %w", err)
	}

	var summary Summary
	for _, f := range zr.File {
		summary.Entries++
		summary.PayloadSize += int64(f.UncompressedSize64)

		if strings.EqualFold(path.Ext(f.Name), ".gcode") {
			summary.GCodeFiles = append(summary.GCodeFiles, f.Name)
		}
		if f.Name == modelEntry {
			readModel(f, &summary)
		}
	}
	return summary, nil
}

func readModel(f *zip.File, summary *Summary) {
	rc, err := f.Open()
	if err != nil {
		return
	}
	defer rc.Close()

	var model modelFile
	if err := xml.NewDecoder(rc).Decode(&model); err != nil {
		return
	}

	summary.ModelUnit = model.Unit
	for _, m := range model.Metadata {
		if strings.EqualFold(m.Name, "Title") {
			summary.Title = strings.TrimSpace(m.Value)
		}
	}
}

func (s Summary) String() string {
	parts := []string{
		fmt.Sprintf("%d entries", s.Entries),
		utils.FormatFileSize(s.PayloadSize) + " payload",
	}
	if len(s.GCodeFiles) > 0 {
		parts = append(parts, "gcode: "+strings.Join(s.GCodeFiles, ", "))
	}
	if s.ModelUnit != "" {
		parts = append(parts, "unit "+s.ModelUnit)
	}
	return strings.Join(parts, ", ")
}
