package constants

const (
	AppName   = "ledgerd"
	EnvPrefix = "LEDGERD"
)

// Output columns, in order
var SnapshotHeader = []string{"client", "available", "held", "total", "locked"}

const (
	FormatCSV   = "csv"
	FormatTable = "table"

	LogFormatColor = "color"
	LogFormatJSON  = "json"
)
