package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/cli"
	"blobaudit.dev/pkg/config"
	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/explorer"
	"blobaudit.dev/pkg/filetable"
	"blobaudit.dev/pkg/report"
	"blobaudit.dev/pkg/terminal"
)

const (
	defaultReport = "datafeed_report.csv"
	fileMode      = 0o600
)

var errInconsistent = errors.New("consistency check failed")

// commands holds the sub-command handlers. The store is opened on first use, so help and
// unknown commands never reach the network.
type commands struct {
	settings *config.Settings
	connect  func(ctx context.Context) (blobstore.Store, error)

	store blobstore.Store
}

func (cmd *commands) open(ctx context.Context) (blobstore.Store, error) {
	if cmd.store != nil {
		return cmd.store, nil
	}

	store, err := cmd.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not connect to container %q: %w", cmd.settings.Container, err)
	}

	cmd.store = store

	return store, nil
}

func register(app *cli.App, cmd *commands) {
	app.SubCommand("browse", cmd.browse,
		cli.AddDescription("Browse the container interactively"),
		cli.AddHelp("browse [-path=<folder>]\n\nNumbers open a folder or select a file; b goes back, j jumps to a path,\n"+
			"d downloads, u uploads, s searches and q quits."))

	app.SubCommand("download", cmd.download,
		cli.AddDescription("Download one blob"),
		cli.AddHelp("download -path=<blob> [-out=<local file>]"))

	app.SubCommand("upload", cmd.upload,
		cli.AddDescription("Upload a local file"),
		cli.AddHelp("upload -file=<local file> [-path=<blob>]"))

	app.SubCommand("list", cmd.list,
		cli.AddDescription("List every file under a folder as a table"),
		cli.AddHelp("list -path=<folder> [-csv=<file>] [-html=<file>]"))

	app.SubCommand("search", cmd.search,
		cli.AddDescription("Search file and folder names"),
		cli.AddHelp("search -term=<text> [-path=<folder>] [-mode=contains|starts] [-type=all|files|folders]"))

	app.SubCommand("rename", cmd.rename,
		cli.AddDescription("Replace text in file names"),
		cli.AddHelp("rename -term=<text> -replace=<text> [-path=<folder>] [-yes] [-csv=<file>]\n\n"+
			"Every file whose name contains term, ignoring case, is moved to the new name."))

	app.SubCommand("scan", cmd.scan,
		cli.AddDescription("Inventory every Datafeed folder into a CSV report"),
		cli.AddHelp("scan [-mode=dim|param] [-path=<root>] [-out=<file>]"))

	app.SubCommand("check", cmd.check,
		cli.AddDescription("Check Datafeed folders against the expectations of the masters file"),
		cli.AddHelp("check [-masters=<file>] [-mode=dim|param] [-extra=fail|warn|ignore] [-csv=<file>] [-html=<file>]"))

	app.SubCommand("check tables", cmd.checkTables,
		cli.AddDescription("Compare the tables of a scan report against the master paths"),
		cli.AddHelp("check tables -report=<scan csv> [-masters=<file>] [-html=<file>]"))

	app.SubCommand("check columns", cmd.checkColumns,
		cli.AddDescription("Compare the columns of a scan report against the master paths"),
		cli.AddHelp("check columns -report=<scan csv> [-masters=<file>] [-html=<file>]"))

	app.SubCommand("check schema", cmd.checkSchema,
		cli.AddDescription("Check that every table declares the same columns wherever it appears"),
		cli.AddHelp("check schema -report=<scan csv> [-exclude=<prefix>,...] [-html=<file>]\n\n"+
			"Paths under an excluded prefix are skipped; the default comes from SCHEMA_EXCLUDE."))
}

func (cmd *commands) explorer(c *cli.Context) (*explorer.Explorer, error) {
	store, err := cmd.open(c)
	if err != nil {
		return nil, err
	}

	return explorer.New(store, c.Out, c.Logger, cmd.settings.DownloadDir), nil
}

func (cmd *commands) browse(c *cli.Context) (any, error) {
	ex, err := cmd.explorer(c)
	if err != nil {
		return nil, err
	}

	return nil, ex.Browse(c, c.Param("path"))
}

func (cmd *commands) download(c *cli.Context) (any, error) {
	path, err := c.Require("path")
	if err != nil {
		return nil, err
	}

	ex, err := cmd.explorer(c)
	if err != nil {
		return nil, err
	}

	dest, err := ex.Download(c, path, c.Param("out"))
	if err != nil {
		return nil, err
	}

	c.Out.Success("downloaded %s to %s", path, dest)

	return nil, nil
}

func (cmd *commands) upload(c *cli.Context) (any, error) {
	file, err := c.Require("file")
	if err != nil {
		return nil, err
	}

	ex, err := cmd.explorer(c)
	if err != nil {
		return nil, err
	}

	dest, err := ex.Upload(c, file, c.Param("path"))
	if err != nil {
		return nil, err
	}

	c.Out.Success("uploaded %s to %s", file, dest)

	return nil, nil
}

func (cmd *commands) list(c *cli.Context) (any, error) {
	path, err := c.Require("path")
	if err != nil {
		return nil, err
	}

	store, err := cmd.open(c)
	if err != nil {
		return nil, err
	}

	entries, err := store.Walk(c, path)
	if err != nil {
		return nil, err
	}

	rows := filetable.FromEntries(entries)
	if len(rows) == 0 {
		return "No files found.", nil
	}

	c.Out.Println(report.RowsTable(rows))
	c.Out.Println(report.SummaryTable(filetable.Summarize(rows)))

	if err := writeFile(c, c.Param("csv"), func(f *os.File) error { return report.WriteRows(f, rows) }); err != nil {
		return nil, err
	}

	return nil, writeFile(c, c.Param("html"), func(f *os.File) error {
		return report.RowsHTML(f, path, rows, time.Now())
	})
}

func (cmd *commands) search(c *cli.Context) (any, error) {
	term, err := c.Require("term")
	if err != nil {
		return nil, err
	}

	mode, err := filetable.ParseMode(c.ParamOrDefault("mode", string(filetable.ModeContains)))
	if err != nil {
		return nil, err
	}

	filter, err := filetable.ParseFilter(c.ParamOrDefault("type", string(filetable.FilterAll)))
	if err != nil {
		return nil, err
	}

	store, err := cmd.open(c)
	if err != nil {
		return nil, err
	}

	matches, err := explorer.Search(c, store, c.Param("path"), term, mode, filter)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches for %q.", term), nil
	}

	return report.MatchesTable(matches), nil
}

func (cmd *commands) rename(c *cli.Context) (any, error) {
	term, err := c.Require("term")
	if err != nil {
		return nil, err
	}

	replacement, err := c.Require("replace")
	if err != nil {
		return nil, err
	}

	store, err := cmd.open(c)
	if err != nil {
		return nil, err
	}

	entries, err := store.Walk(c, c.Param("path"))
	if err != nil {
		return nil, err
	}

	plans := filetable.PlanRenames(entries, term, replacement)
	if len(plans) == 0 {
		return fmt.Sprintf("No files contain %q.", term), nil
	}

	c.Out.Println(report.RenamesTable(plans))

	if !c.Bool("yes") {
		ok, err := c.Out.Confirm(fmt.Sprintf("Rename %d file(s)?", len(plans)))
		if err != nil {
			return nil, err
		}

		if !ok {
			return "Rename cancelled.", nil
		}
	}

	results := filetable.ApplyRenames(c, store, plans)

	c.Out.Println(report.RenameResultsTable(results))

	for _, r := range results {
		if r.Err != nil {
			c.Logger.Warnf("rename %s: %v", r.OldPath, r.Err)
		}
	}

	return nil, writeFile(c, c.Param("csv"), func(f *os.File) error { return report.WriteRenames(f, results) })
}

func (cmd *commands) scan(c *cli.Context) (any, error) {
	mode, err := datafeed.ParseMode(c.Param("mode"))
	if err != nil {
		return nil, err
	}

	store, err := cmd.open(c)
	if err != nil {
		return nil, err
	}

	spinner := terminal.NewDotSpinner(c.Out).Spin("Scanning Datafeed folders")
	res, err := datafeed.NewScanner(store, mode, c.Logger, nil).Scan(c, c.Param("path"))
	spinner.Stop()

	if err != nil {
		return nil, err
	}

	tables := res.Tables()

	for _, f := range res.Failures {
		c.Out.Warn("could not read %v", f)
	}

	if len(tables) == 0 {
		return "No tables found.", nil
	}

	out := c.ParamOrDefault("out", defaultReport)
	if err := writeFile(c, out, func(f *os.File) error { return report.WriteTables(f, tables) }); err != nil {
		return nil, err
	}

	return fmt.Sprintf("%d folder(s), %d table(s), %d failure(s)", len(res.Folders), len(tables), len(res.Failures)), nil
}

func (cmd *commands) masters(c *cli.Context) (*consistency.Masters, error) {
	return consistency.LoadMasters(c.ParamOrDefault("masters", cmd.settings.MastersFile))
}

func (cmd *commands) check(c *cli.Context) (any, error) {
	masters, err := cmd.masters(c)
	if err != nil {
		return nil, err
	}

	mode, err := datafeed.ParseMode(c.Param("mode"))
	if err != nil {
		return nil, err
	}

	policy, err := consistency.ParseExtraPolicy(c.ParamOrDefault("extra", cmd.settings.ExtraPolicy))
	if err != nil {
		return nil, err
	}

	store, err := cmd.open(c)
	if err != nil {
		return nil, err
	}

	scanner := datafeed.NewScanner(store, mode, c.Logger, nil)
	rep := consistency.NewChecker(scanner, policy, c.Logger, nil).CheckAll(c, masters.Expectations)

	c.Out.Println(report.ResultsTable(rep))

	if err := writeFile(c, c.Param("csv"), func(f *os.File) error { return report.WriteResults(f, rep) }); err != nil {
		return nil, err
	}

	if err := writeFile(c, c.Param("html"), func(f *os.File) error { return report.ResultsHTML(f, rep) }); err != nil {
		return nil, err
	}

	if !rep.OK() {
		return nil, errInconsistent
	}

	c.Out.Success("all %d expectation(s) consistent", len(rep.Results))

	return nil, nil
}

// loadReport reads the scan CSV named by -report together with the master paths.
func (cmd *commands) loadReport(c *cli.Context) ([]datafeed.Table, []string, error) {
	masters, err := cmd.masters(c)
	if err != nil {
		return nil, nil, err
	}

	tables, err := readReport(c)
	if err != nil {
		return nil, nil, err
	}

	return tables, masters.MasterPaths, nil
}

func readReport(c *cli.Context) ([]datafeed.Table, error) {
	path, err := c.Require("report")
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tables, err := report.ReadTables(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return tables, nil
}

func (cmd *commands) checkTables(c *cli.Context) (any, error) {
	tables, masterPaths, err := cmd.loadReport(c)
	if err != nil {
		return nil, err
	}

	rep := consistency.CompareTables(tables, masterPaths)

	c.Out.Println(report.TablesSummary(rep))

	return nil, writeFile(c, c.Param("html"), func(f *os.File) error {
		return report.TablesHTML(f, rep, time.Now())
	})
}

func (cmd *commands) checkColumns(c *cli.Context) (any, error) {
	tables, masterPaths, err := cmd.loadReport(c)
	if err != nil {
		return nil, err
	}

	rep := consistency.CompareColumns(tables, masterPaths)

	c.Out.Println(report.ColumnsSummary(rep))

	return nil, writeFile(c, c.Param("html"), func(f *os.File) error {
		return report.ColumnsHTML(f, rep, time.Now())
	})
}

func (cmd *commands) checkSchema(c *cli.Context) (any, error) {
	tables, err := readReport(c)
	if err != nil {
		return nil, err
	}

	exclude := cmd.settings.SchemaExclude
	if v, ok := c.Lookup("exclude"); ok {
		exclude = config.SplitList(v)
	}

	rep := consistency.ValidateColumns(tables, exclude...)

	c.Out.Println(report.SchemaSummary(rep))

	return nil, writeFile(c, c.Param("html"), func(f *os.File) error {
		return report.SchemaHTML(f, rep, time.Now())
	})
}

// writeFile creates path and hands it to write. An empty path writes nothing.
func writeFile(c *cli.Context, path string, write func(f *os.File) error) error {
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return err
	}

	c.Out.Success("wrote %s", path)

	return nil
}
