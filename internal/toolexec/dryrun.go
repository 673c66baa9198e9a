package toolexec

import (
	"context"
	"fmt"
	"io"
)

// DryRunner prints each invocation prefixed with "+ " instead of running it.
type DryRunner struct {
	Out io.Writer
}

func (d *DryRunner) Run(_ context.Context, inv Invocation) error {
	_, err := fmt.Fprintln(d.Out, "+ "+inv.String())
	return err
}
