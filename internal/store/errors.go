package store

import "errors"

var (
	ErrExportExists = errors.New("export file already exists")
	ErrExportClosed = errors.New("exporter is closed")
)
