package exporter

import (
	"github.com/hyp3rd/otelship/internal/constants"
	"github.com/hyp3rd/otelship/pkg/config"
	"github.com/hyp3rd/otelship/pkg/connection"
	"github.com/hyp3rd/otelship/pkg/diagnostics"
)

func snapshot(cfg config.Config, conn *connection.Connection) diagnostics.Snapshot {
	return diagnostics.Snapshot{
		Signal:    string(cfg.Signal),
		Endpoint:  cfg.Endpoint.Target(),
		Secure:    cfg.Endpoint.Secure,
		State:     conn.State().String(),
		UserAgent: constants.UserAgent,
	}
}
