package datafeed

import (
	"context"
	"fmt"
	"strings"

	"blobaudit.dev/pkg/blobstore"
)

// Mode selects which workbook a folder is inventoried from.
type Mode string

const (
	// ModeDim reads DimManager.xlsx where every sheet is a table.
	ModeDim Mode = "dim"
	// ModeParam reads the first ParameterManager workbook and its named Excel tables.
	ModeParam Mode = "param"
)

const (
	dimWorkbook   = "dimmanager.xlsx"
	paramWorkbook = "parametermanager"
)

// ParseMode accepts the mode names used on the command line and in forms.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDim, "":
		return ModeDim, nil
	case ModeParam:
		return ModeParam, nil
	default:
		return "", fmt.Errorf("unknown scan mode %q, expected dim or param", s)
	}
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Metrics counts the tables found per source.
type Metrics interface {
	ObserveTables(source string, n int)
}

type Scanner struct {
	store   blobstore.Store
	mode    Mode
	logger  Logger
	metrics Metrics
}

// NewScanner builds a Scanner. metrics may be nil.
func NewScanner(store blobstore.Store, mode Mode, logger Logger, metrics Metrics) *Scanner {
	return &Scanner{store: store, mode: mode, logger: logger, metrics: metrics}
}

func (s *Scanner) Mode() Mode {
	return s.mode
}

// Result is the outcome of scanning every Datafeed folder under a root.
type Result struct {
	Root     string
	Folders  []*Inventory
	Failures []Failure
}

// Tables flattens the inventories in folder order.
func (r *Result) Tables() []Table {
	var tables []Table

	for _, inv := range r.Folders {
		tables = append(tables, inv.Tables...)
	}

	return tables
}

// Scan discovers the Datafeed folders under root and inventories each of them. A folder that
// cannot be listed is recorded as a failure and the scan moves on.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	folders, err := Discover(ctx, s.store, root)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("found %d datafeed folder(s) under %q", len(folders), root)

	res := &Result{Root: root}

	for i, folder := range folders {
		s.logger.Debugf("[%d/%d] processing %s", i+1, len(folders), folder)

		inv, err := s.Inventory(ctx, folder)
		if err != nil {
			s.logger.Warnf("skipping %s: %v", folder, err)
			res.Failures = append(res.Failures, Failure{Path: folder, Err: err})

			continue
		}

		res.Folders = append(res.Folders, inv)
		res.Failures = append(res.Failures, inv.Failures...)
	}

	return res, nil
}

// Inventory reads the workbook and Parquet files of one Datafeed folder. Errors listing the
// folder are returned; errors reading individual files are recorded on the inventory.
func (s *Scanner) Inventory(ctx context.Context, folder string) (*Inventory, error) {
	prefix := blobstore.EnsureDir(folder)

	entries, err := s.store.Walk(ctx, prefix)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 && prefix != "" {
		if _, err := s.store.List(ctx, prefix); err != nil {
			return nil, err
		}
	}

	inv := &Inventory{Path: strings.TrimSuffix(prefix, blobstore.Delimiter)}

	for _, e := range entries {
		if e.IsMarker() {
			continue
		}

		name := strings.ToLower(e.Name)

		switch {
		case strings.HasSuffix(name, ".parquet"):
			inv.Parquet = append(inv.Parquet, e.Path)
		case inv.Workbook == "" && s.isWorkbook(name):
			inv.Workbook = e.Path
		}
	}

	if inv.Workbook != "" {
		s.readWorkbook(ctx, inv)
	} else {
		s.logger.Debugf("no %s workbook in %s", s.mode, inv.Path)
	}

	for _, p := range inv.Parquet {
		s.readParquet(ctx, inv, p)
	}

	s.observe(inv)

	return inv, nil
}

func (s *Scanner) isWorkbook(name string) bool {
	if s.mode == ModeParam {
		return strings.Contains(name, paramWorkbook) &&
			(strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm") || strings.HasSuffix(name, ".xls"))
	}

	return name == dimWorkbook
}

func (s *Scanner) readWorkbook(ctx context.Context, inv *Inventory) {
	if blobstore.Ext(inv.Workbook) == "xls" {
		inv.Failures = append(inv.Failures, Failure{Path: inv.Workbook, Err: errLegacyWorkbook})
		return
	}

	data, err := s.store.Download(ctx, inv.Workbook)
	if err != nil {
		inv.Failures = append(inv.Failures, Failure{Path: inv.Workbook, Err: err})
		return
	}

	read := sheetTables
	if s.mode == ModeParam {
		read = namedTables
	}

	tables, failures, err := read(data, inv.Path)
	if err != nil {
		inv.Failures = append(inv.Failures, Failure{Path: inv.Workbook, Err: err})
		return
	}

	if len(tables) == 0 {
		s.logger.Warnf("no tables found in %s", inv.Workbook)
	}

	inv.Tables = append(inv.Tables, tables...)
	inv.Failures = append(inv.Failures, failures...)
}

func (s *Scanner) readParquet(ctx context.Context, inv *Inventory, path string) {
	data, err := s.store.Download(ctx, path)
	if err != nil {
		inv.Failures = append(inv.Failures, Failure{Path: path, Err: err})
		return
	}

	columns, err := parquetColumns(data)
	if err != nil {
		inv.Failures = append(inv.Failures, Failure{Path: path, Err: err})
		return
	}

	inv.Tables = append(inv.Tables, Table{
		Path:    inv.Path,
		Source:  SourceParquet,
		Name:    blobstore.Base(path),
		Columns: columns,
	})
}

func (s *Scanner) observe(inv *Inventory) {
	if s.metrics == nil {
		return
	}

	s.metrics.ObserveTables(string(SourceExcel), len(inv.Names(SourceExcel)))
	s.metrics.ObserveTables(string(SourceParquet), len(inv.Names(SourceParquet)))
}
