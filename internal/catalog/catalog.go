package catalog

import (
	"fmt"
	"strings"

	"github.com/ListenOcean/goTableHint/advice"
	"github.com/ListenOcean/goTableHint/frame"
	"github.com/ListenOcean/goTableHint/hooklib"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var ByTarget bool

// ListCmd prints the built-in hints.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in hints and the entry points they watch.",
	Args:  cobra.NoArgs,
	RunE:  ListEntry,
}

func init() {
	ListCmd.Flags().BoolVarP(&ByTarget, "by-target", "t", false, "one row per watched entry point")
}

func ListEntry(cmd *cobra.Command, args []string) error {
	l, err := hooklib.New(frame.Lib, hooklib.WithOutput(hooklib.OutputOff))
	if err != nil {
		return err
	}
	if err := advice.Register(l); err != nil {
		return err
	}
	if ByTarget {
		fmt.Fprintln(cmd.OutOrStdout(), TargetTable(l))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), HintTable(l))
	return nil
}

// HintTable renders one row per registered hint.
func HintTable(l *hooklib.Ledger) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Hint", "Timing", "Targets", "Policy"})
	for _, h := range l.Hints() {
		t.AppendRow(table.Row{h.Name(), h.Timing(), strings.Join(h.Targets(), ", "), h.Policy()})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d hints", l.NUnique()), fmt.Sprintf("%d bindings", l.Len())})
	return t.Render()
}

// TargetTable renders one row per entry point, hints in execution order.
func TargetTable(l *hooklib.Ledger) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Target", "Pre", "Post"})
	for _, target := range l.Targets() {
		var pre, post []string
		for _, h := range l.HintsFor(target) {
			if h.Timing() == hooklib.Pre {
				pre = append(pre, h.Name())
			} else {
				post = append(post, h.Name())
			}
		}
		t.AppendRow(table.Row{target, strings.Join(pre, "\n"), strings.Join(post, "\n")})
	}
	return t.Render()
}
