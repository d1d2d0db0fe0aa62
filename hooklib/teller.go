package hooklib

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ListenOcean/goTableHint/internal/log"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Output names a built-in output channel.
type Output string

const (
	OutputPrint   Output = "print"
	OutputDisplay Output = "display"
	OutputDebug   Output = "debug"
	OutputInfo    Output = "info"
	OutputWarning Output = "warning"
	OutputOff     Output = "off"
	OutputCustom  Output = "custom"
)

var acceptedOutputs = []Output{OutputPrint, OutputDisplay, OutputDebug, OutputInfo, OutputWarning, OutputOff}

// Sink is a caller-supplied output channel.
type Sink func(m Message)

type channel struct {
	output Output
	sink   Sink
}

// Teller renders advisories to the configured channel. It keeps only the
// most recent message and call site.
type Teller struct {
	mu      sync.Mutex
	ch      channel
	writer  io.Writer
	logger  *log.Logger
	verbose bool
	message *Message
	caller  CallSite
	// reports whether display can be used on the writer
	isTerminal func(w io.Writer) bool
}

// NewTeller returns a verbose teller printing to w.
func NewTeller(w io.Writer, logger *log.Logger) *Teller {
	if w == nil {
		w = os.Stdout
	}
	if logger == nil {
		logger = log.NewWriter(w, log.DebugLevel)
	}
	return &Teller{
		ch:         channel{output: OutputPrint},
		writer:     w,
		logger:     logger,
		verbose:    true,
		isTerminal: writerIsTerminal,
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetOutput selects the channel. It accepts an Output, its string form, a
// Sink or a func(Message). Display falls back to print when the writer is
// not a terminal.
func (t *Teller) SetOutput(output interface{}) error {
	ch, err := t.parseChannel(output)
	if err != nil {
		return err
	}
	t.swap(ch)
	return nil
}

func (t *Teller) parseChannel(output interface{}) (channel, error) {
	switch o := output.(type) {
	case Sink:
		if o == nil {
			return channel{}, errors.Wrap(InvalidOutputError, "nil sink")
		}
		return channel{output: OutputCustom, sink: o}, nil
	case func(Message):
		if o == nil {
			return channel{}, errors.Wrap(InvalidOutputError, "nil sink")
		}
		return channel{output: OutputCustom, sink: o}, nil
	case string:
		return t.parseChannel(Output(o))
	case Output:
		for _, accepted := range acceptedOutputs {
			if o != accepted {
				continue
			}
			if o == OutputDisplay && !t.isTerminal(t.writer) {
				o = OutputPrint
			}
			return channel{output: o}, nil
		}
		return channel{}, errors.Wrapf(InvalidOutputError, "output must be one of %v or a Sink, got %q", acceptedOutputs, string(o))
	default:
		return channel{}, errors.Wrapf(InvalidOutputError, "unexpected output type `%T`", output)
	}
}

// swap installs ch and returns the previous channel.
func (t *Teller) swap(ch channel) channel {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.ch
	t.ch = ch
	return prev
}

// Output returns the active channel name.
func (t *Teller) Output() Output {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ch.output
}

func (t *Teller) SetVerbose(verbose bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.verbose = verbose
}

func (t *Teller) Verbose() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.verbose
}

func (t *Teller) setCaller(site CallSite) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.caller = site
}

// Last returns the most recent message.
func (t *Teller) Last() (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.message == nil {
		return Message{}, false
	}
	return *t.message, true
}

// Tell renders body for site on the active channel. Custom sinks run
// outside the teller's lock; a panicking sink loses the message.
func (t *Teller) Tell(site CallSite, body string, color Color) {
	t.mu.Lock()
	m, sink := t.tell(site, body, color)
	t.mu.Unlock()
	t.deliver(sink, m)
}

// TellCurrent renders body for the most recently recorded call site.
func (t *Teller) TellCurrent(body string, color Color) {
	t.mu.Lock()
	m, sink := t.tell(t.caller, body, color)
	t.mu.Unlock()
	t.deliver(sink, m)
}

// tell records the message and writes it to the built-in channels. It
// returns the sink when the channel is custom.
func (t *Teller) tell(site CallSite, body string, color Color) (Message, Sink) {
	m := Message{
		Body:    body,
		Color:   color,
		File:    site.File,
		Line:    site.Line,
		Code:    site.Code,
		Verbose: t.verbose,
	}
	t.message = &m
	t.caller = site

	switch t.ch.output {
	case OutputPrint:
		fmt.Fprintln(t.writer, m.String())
	case OutputDisplay:
		fmt.Fprintln(t.writer, m.Render())
	case OutputDebug:
		t.logger.Debug(m.Text(), t.fields(m)...)
	case OutputInfo:
		t.logger.Info(m.Text(), t.fields(m)...)
	case OutputWarning:
		t.logger.Warn(m.Text(), t.fields(m)...)
	case OutputCustom:
		return m, t.ch.sink
	case OutputOff:
	}
	return m, nil
}

func (t *Teller) deliver(sink Sink, m Message) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("sink panicked", log.String("panic", fmt.Sprint(r)), log.String("message", m.Text()))
		}
	}()
	sink(m)
}

func (t *Teller) fields(m Message) []log.Field {
	if !m.Verbose {
		return []log.Field{log.String("severity", m.Color.Level())}
	}
	return []log.Field{
		log.String("severity", m.Color.Level()),
		log.String("file", m.File),
		log.Int("line", m.Line),
		log.String("code", m.Code),
	}
}
