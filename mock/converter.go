package mock

import "github.com/kdr/tldr"

var _ tldr.Converter = (*Converter)(nil)

// Converter is a mock implementation of tldr.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
