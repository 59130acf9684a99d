package exporter

import "github.com/hyp3rd/ewrap"

// ErrAlreadyShutdown is returned by export calls once shutdown has been
// initiated. Callers should stop sending; the batch was not transmitted.
var ErrAlreadyShutdown = ewrap.New("exporter is shut down")
