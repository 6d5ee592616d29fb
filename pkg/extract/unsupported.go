package extract

import (
	"github.com/odvcencio/holdall/pkg/errs"
)

// unsupportedExtractor is the handle for formats the dispatcher resolves
// but no Go decoder exists for (cab, lha). Dispatch succeeds; the
// operations themselves report the format unsupported.
type unsupportedExtractor struct {
	name string
}

func (e *unsupportedExtractor) List(string) (Entries, error) {
	return nil, &errs.UnsupportedFormat{Name: e.name, Op: "extraction"}
}

func (e *unsupportedExtractor) Perform(string, string) error {
	return &errs.UnsupportedFormat{Name: e.name, Op: "extraction"}
}
