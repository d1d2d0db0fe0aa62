package hooklib

import (
	"reflect"

	"github.com/ListenOcean/goTableHint/internal/log"
)

// InstallAll wraps every registered target. It stops at the first target
// that cannot be resolved; targets installed before it stay installed.
func (l *Ledger) InstallAll() error {
	for _, id := range l.Targets() {
		if err := l.Install(id); err != nil {
			return err
		}
	}
	return nil
}

// Install replaces target with a wrapper running its current hints. The
// original is saved the first time only, so repeated installs always wrap
// and later restore the pristine function.
func (l *Ledger) Install(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, err := l.find(id)
	if err != nil {
		return err
	}
	original, saved := l.originals[id]
	if !saved {
		original = t.field
		// copy the func value so later Sets on the field don't alias it
		original = reflect.ValueOf(original.Interface())
		l.originals[id] = original
	}

	var pres, posts []*Hint
	for _, h := range l.hints[id] {
		switch h.timing {
		case Pre:
			pres = append(pres, h)
		case Post:
			posts = append(posts, h)
		}
	}
	t.field.Set(l.wrap(t, original, pres, posts))
	l.installed[id] = true
	l.logger.Debug("target installed", log.String("target", t.String()), log.Int("pre", len(pres)), log.Int("post", len(posts)))
	return nil
}

// find returns the cached descriptor for id, resolving it on first use.
func (l *Ledger) find(id string) (*target, error) {
	if t, ok := l.index[id]; ok {
		return t, nil
	}
	t, err := resolveTarget(l.root, id)
	if err != nil {
		return nil, err
	}
	l.index[id] = t
	return t, nil
}

// Revert puts every saved original back. Targets never installed are left
// untouched.
func (l *Ledger) Revert() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, original := range l.originals {
		l.index[id].field.Set(original)
		delete(l.installed, id)
		l.logger.Debug("target reverted", log.String("target", id))
	}
}

// Original returns the saved pristine function of target.
func (l *Ledger) Original(id string) (interface{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	original, ok := l.originals[id]
	if !ok {
		return nil, false
	}
	return original.Interface(), true
}

// Installed reports whether target currently holds this ledger's wrapper.
func (l *Ledger) Installed(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.installed[id]
}
