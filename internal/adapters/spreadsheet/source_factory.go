package spreadsheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rauljr10980/county-cad-tracker-sub005/internal/core/port"
)

// OpenSource picks the reader for an export file by extension.
func OpenSource(path string) (port.TabularSourcePort, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewXLSXSource(path), nil
	case ".csv", ".txt":
		return NewCSVSource(path), nil
	default:
		return nil, fmt.Errorf("unsupported export file type: %s", path)
	}
}
