package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// progressPrinter renders conversion progress on stderr. The bar is created
// lazily on the first update so it can switch to a spinner when the input
// duration is unknown (the transcoder reports -1 in that case).
type progressPrinter struct {
	disabled bool
	label    string
	bar      *progressbar.ProgressBar
}

func newProgressPrinter(disabled bool) *progressPrinter {
	return &progressPrinter{disabled: disabled}
}

// StartFile finishes any bar from a previous file and arms a new one for
// the given label.
func (p *progressPrinter) StartFile(label string) {
	if p.disabled {
		return
	}
	p.finishBar()
	p.label = label
}

// Update implements media.ProgressFunc.
func (p *progressPrinter) Update(percent float64, _ string) {
	if p.disabled {
		return
	}
	if p.bar == nil {
		p.bar = newBar(p.label, percent >= 0)
	}
	if percent < 0 {
		_ = p.bar.Add(1)
		return
	}
	_ = p.bar.Set(int(percent))
}

// Finish completes the current bar, if any.
func (p *progressPrinter) Finish() {
	if p.disabled {
		return
	}
	p.finishBar()
}

func (p *progressPrinter) finishBar() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(os.Stderr)
	p.bar = nil
}

func newBar(label string, determinate bool) *progressbar.ProgressBar {
	total := int64(-1)
	if determinate {
		total = 100
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(0),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
