package cli

import (
	"io"
	"os"
	"sync"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}}{{counters . }} samples {{etime . }}`

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Progress draws a sample counter while a conversion runs.
type Progress struct {
	w   io.Writer
	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewProgress creates a Progress writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Hooks returns conversion hooks driving the bar.
func (p *Progress) Hooks() domain.ConversionHooks {
	return domain.ConversionHooks{
		OnStart: func(e *domain.ConversionEvent) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.bar = progressTemplate.New(0)
			p.bar.SetWriter(p.w)
			p.bar.Set("prefix", e.Format+" ")
			p.bar.Start()
		},
		OnSample: func(e *domain.ConversionEvent) {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.bar != nil {
				p.bar.SetCurrent(int64(e.Index))
			}
		},
		OnFinish: func(e *domain.ConversionEvent) {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.bar != nil {
				p.bar.SetCurrent(int64(e.Index))
				p.bar.Finish()
				p.bar = nil
			}
		},
	}
}
