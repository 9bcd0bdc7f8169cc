package views

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
)

type SystemInfoItem struct {
	ConfigPath   string
	AppDataDir   string
	OutputFormat string
	Workers      int
	LogLevel     string
	LogFormat    string
	ExportPath   string
	ExportExists bool // true = Found, false = Not Found
	MetricsFile  string
}

func RenderSystemInfo(w io.Writer, data SystemInfoItem) error {
	exportPath := data.ExportPath
	exportStatus := pterm.Gray("Disabled")
	if exportPath != "" {
		exportStatus = pterm.Green("Found (will be replaced)")
		if !data.ExportExists {
			exportStatus = pterm.Red("Not Found (Will be created)")
		}
	} else {
		exportPath = "-"
	}

	metricsFile := data.MetricsFile
	if metricsFile == "" {
		metricsFile = "-"
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"AppData Directory", data.AppDataDir},
		{"Output Format", data.OutputFormat},
		{"Workers", strconv.Itoa(data.Workers)},
		{"Log Level", data.LogLevel},
		{"Log Format", data.LogFormat},
		{"SQLite Export", exportPath},
		{"Export Status", exportStatus},
		{"Metrics File", metricsFile},
	}

	table, err := pterm.DefaultTable.WithData(tableData).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
