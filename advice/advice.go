// Package advice holds the built-in hints for the frame library and wires
// them into a ledger.
package advice

import (
	"path/filepath"
	"runtime"

	"github.com/ListenOcean/goTableHint/configs"
	"github.com/ListenOcean/goTableHint/frame"
	"github.com/ListenOcean/goTableHint/hooklib"
	"github.com/ListenOcean/goTableHint/internal/log"

	"github.com/pkg/errors"
)

var (
	// MergeTargets are the entry points that combine several frames.
	MergeTargets = hooklib.On("Merge", "Concat")
	// TimeColumns are column names that suggest a time-based grouping.
	TimeColumns = []string{"year", "month", "week", "day", "hour", "minute", "second", "weekday", "time"}
)

const (
	// LargeCSVCells is the frame size, in cells, above which writing CSV is
	// discouraged.
	LargeCSVCells = 1000000
	// RepeatedAccess is the number of identical column lookups from one line
	// that counts as a loop.
	RepeatedAccess = 4
)

type rule struct {
	targets hooklib.Targets
	timing  hooklib.Timing
	fn      interface{}
	opts    []hooklib.HintOption
}

var rules = []rule{
	{hooklib.On("DataFrame.IterRows"), hooklib.Pre, iterRowsIsBad, nil},
	{hooklib.On("DataFrame.GroupBy"), hooklib.Pre, timeGrouping, nil},
	{hooklib.On("Concat"), hooklib.Post, duplicateIndexAfterConcat, nil},
	{hooklib.On("Concat"), hooklib.Pre, concatSingleColumn, nil},
	{hooklib.On("Concat"), hooklib.Pre, wrongConcatAxis, nil},
	{MergeTargets, hooklib.Post, emptyMergeResult, nil},
	{hooklib.On("DataFrame.Eq"), hooklib.Pre, frameCheckEquality, nil},
	{hooklib.On("Series.Eq"), hooklib.Pre, seriesCheckEquality, nil},
	{hooklib.On("ReadCSV"), hooklib.Post, csvIndex, nil},
	{hooklib.On("DataFrame.ToCSV"), hooklib.Pre, largeCSV, nil},
	{hooklib.On("DataFrame.Column"), hooklib.Pre, repeatedColumn,
		[]hooklib.HintOption{hooklib.WithPolicy(hooklib.StartFrom(RepeatedAccess))}},
}

// Register adds every built-in hint to l. It does not install them.
func Register(l *hooklib.Ledger) error {
	for _, r := range rules {
		if err := l.Register(r.targets, r.timing, r.fn, r.opts...); err != nil {
			return errors.Wrapf(err, "register %v", r.targets)
		}
	}
	return nil
}

// Setup builds a ledger over frame.Lib from cfg, registers the built-in
// hints and installs them. Calls from the frame, hooklib and advice packages
// never trigger hints. opts are applied after the configuration.
func Setup(cfg *configs.Config, opts ...hooklib.Option) (*hooklib.Ledger, error) {
	if cfg == nil {
		cfg = configs.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []hooklib.Option{
		hooklib.WithOutput(cfg.Output),
		hooklib.WithVerbose(cfg.IsVerbose()),
		hooklib.WithMemorySize(cfg.MemorySize),
		hooklib.WithRestrictedDirs(frame.Dir(), hooklib.Dir(), Dir()),
		hooklib.WithRestrictedDirs(cfg.RestrictedDirs...),
	}
	if logger := log.Default(); logger != nil {
		base = append(base, hooklib.WithLogger(logger))
	}
	l, err := hooklib.New(frame.Lib, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := Register(l); err != nil {
		return nil, err
	}
	for _, target := range cfg.Ignore {
		l.IgnoreHook(target)
	}
	if err := l.InstallAll(); err != nil {
		l.Revert()
		return nil, err
	}
	log.Debug("advice installed", log.Int("hints", l.NUnique()), log.Int("bindings", l.Len()))
	return l, nil
}

// Dir returns the directory of this package's sources.
func Dir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}
