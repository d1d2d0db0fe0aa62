package check

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ListenOcean/goTableHint/advice"
	"github.com/ListenOcean/goTableHint/configs"
	"github.com/ListenOcean/goTableHint/frame"
	"github.com/ListenOcean/goTableHint/hooklib"
	"github.com/ListenOcean/goTableHint/internal/log"

	"github.com/fatih/color"
	"github.com/panjf2000/ants"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	ConfigPath string
	Output     string
	Quiet      bool
	Workers    int
)

// CheckCmd loads CSV files through the instrumented frame library and
// concatenates them, printing the advice raised on the way.
var CheckCmd = &cobra.Command{
	Use:   "check <file.csv>...",
	Short: "Load CSV files and report advice on how they are combined.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  CheckEntry,
}

func init() {
	CheckCmd.Flags().StringVarP(&ConfigPath, "config", "c", "", "config file (yaml or toml), defaults to $"+configs.TagCustomConfig)
	CheckCmd.Flags().StringVarP(&Output, "output", "o", "", "override the output channel")
	CheckCmd.Flags().BoolVarP(&Quiet, "quiet", "q", false, "silence advice, print only the summary")
	CheckCmd.Flags().IntVarP(&Workers, "workers", "w", 4, "number of files read concurrently")
}

var (
	titleColor = color.New(color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)
	countColor = color.New(color.FgYellow)
)

func CheckEntry(cmd *cobra.Command, args []string) error {
	cfg, err := configs.Load(ConfigPath)
	if err != nil {
		return err
	}
	if Output != "" {
		cfg.Output = Output
	}
	if Quiet {
		cfg.Output = "off"
	}
	if log.Default() == nil {
		log.InitLog(cfg.Log)
	}

	out := cmd.OutOrStdout()
	l, err := advice.Setup(cfg, hooklib.WithWriter(out))
	if err != nil {
		return err
	}
	defer l.Revert()

	start := time.Now()
	frames, err := readAll(args, Workers)
	if err != nil {
		log.Error("read csv fail.", log.Err(err))
		return err
	}
	combined := frames[0]
	if len(frames) > 1 {
		if combined, err = frame.Lib.Concat(frames); err != nil {
			return errors.Wrap(err, "concat")
		}
	}
	summary(out, len(frames), combined, l.Memory().Len())
	log.Info("check done.", log.Int("files", len(frames)), log.Duration("elapsed", time.Since(start)))
	return nil
}

// readAll reads paths on a bounded pool and returns the frames in argument
// order.
func readAll(paths []string, workers int) ([]*frame.DataFrame, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	defer pool.Release()

	frames := make([]*frame.DataFrame, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i := range paths {
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			df, err := frame.Lib.ReadCSV(paths[i])
			frames[i], errs[i] = df, err
		})
		if err != nil {
			wg.Done()
			log.Warn("submit to pool fail.", log.String("path", paths[i]), log.Err(err))
			errs[i] = errors.Wrap(err, "submit")
			break
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", paths[i])
		}
	}
	log.Debug("csv files loaded", log.Int("files", len(paths)), log.Int("workers", workers))
	return frames, nil
}

func summary(w io.Writer, files int, df *frame.DataFrame, calls int) {
	rows, cols := df.Shape()
	titleColor.Fprint(w, "tablehint ")
	fmt.Fprintf(w, "checked %s file(s): ", countColor.Sprint(files))
	okColor.Fprintf(w, "%d rows x %d columns", rows, cols)
	fmt.Fprintf(w, ", %d library calls observed\n", calls)
}
