package util

import (
	"io"

	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

// Create a byte-counting progress bar with custom options.
//
// @param p - Progress container the bar is added to.
//
// @param total - Expected number of bytes.
//
// @param name - Label printed in front of the bar.
func NewBytesProgressBar(p *mpb.Progress, total int64, name string) *mpb.Bar {
	return p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 2, C: decor.DidentRight}),
			decor.CountersKibiByte("% .2f / % .2f "),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Name(" | "),
			decor.EwmaSpeed(decor.UnitKiB, "% .2f", 60),
		),
	)
}

// Create a progress container writing to `out`.
func NewProgress(out io.Writer) *mpb.Progress {
	return mpb.New(mpb.WithWidth(60), mpb.WithOutput(out))
}
