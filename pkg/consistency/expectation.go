package consistency

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/datafeed"
)

// datafeedSubPath is where the Datafeed folder lives below a project root.
const datafeedSubPath = "Report Documentation/Datafeed"

var (
	errNoName = errors.New("expectation has no name")
	errNoRoot = errors.New("expectation has no root")
)

// Expectation declares which tables a Datafeed folder must hold.
type Expectation struct {
	Name     string
	Root     string
	Expected map[Category][]string
}

// DatafeedPath is the folder that gets inventoried: Root itself when it already ends in the
// Datafeed segment, otherwise Root/Report Documentation/Datafeed.
func (e Expectation) DatafeedPath() string {
	root := strings.TrimRight(blobstore.Clean(e.Root), blobstore.Delimiter)
	if datafeed.IsDatafeedFolder(root) {
		return root
	}

	return blobstore.Join(root, datafeedSubPath)
}

// Masters is the content of the masters file: the expectations checked one by one and the
// master Datafeed paths the table and column comparisons are built from.
type Masters struct {
	MasterPaths  []string
	Expectations []Expectation
}

type mastersYAML struct {
	MasterPaths  []string          `yaml:"master_paths"`
	Expectations []expectationYAML `yaml:"expectations"`
}

type expectationYAML struct {
	Name     string `yaml:"name"`
	Root     string `yaml:"root"`
	Expected struct {
		Excel   []string `yaml:"excel"`
		Parquet []string `yaml:"parquet"`
	} `yaml:"expected"`
}

// LoadMasters reads and validates a masters YAML file.
func LoadMasters(path string) (*Masters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading masters file: %w", err)
	}

	return ParseMasters(data)
}

func ParseMasters(data []byte) (*Masters, error) {
	var raw mastersYAML

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing masters file: %w", err)
	}

	m := &Masters{MasterPaths: make([]string, 0, len(raw.MasterPaths))}

	for _, p := range raw.MasterPaths {
		m.MasterPaths = append(m.MasterPaths, strings.TrimRight(blobstore.Clean(p), blobstore.Delimiter))
	}

	var errs []error

	for i, e := range raw.Expectations {
		exp := Expectation{
			Name: strings.TrimSpace(e.Name),
			Root: strings.TrimSpace(e.Root),
			Expected: map[Category][]string{
				CategoryExcel:   e.Expected.Excel,
				CategoryParquet: e.Expected.Parquet,
			},
		}

		if exp.Name == "" {
			errs = append(errs, fmt.Errorf("expectation %d: %w", i+1, errNoName))
		}

		if exp.Root == "" {
			errs = append(errs, fmt.Errorf("expectation %d: %w", i+1, errNoRoot))
		}

		m.Expectations = append(m.Expectations, exp)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return m, nil
}
