package main

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/study-productivity/internal/config"
	"github.com/danielpatrickdp/study-productivity/internal/logging"
	"github.com/danielpatrickdp/study-productivity/internal/mcptool"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
)

// Serves the evaluator as MCP tools over stdio. Logs go to stderr so stdout
// stays reserved for the protocol.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("logging: %v", err)
	}

	engine := productivity.NewEngine(cfg.ProductivityConfig())

	var repo mcptool.Repository
	var traceDB *sql.DB
	st, err := cfg.Database.OpenStore()
	if err != nil {
		logrus.Warnf("store unavailable, history disabled: %v", err)
	} else {
		defer st.Close()
		repo = st
		if cfg.Engine.TraceEnabled {
			traceDB = st.DB()
		}
	}

	s := server.NewMCPServer("study-productivity", "1.0.0")
	mcptool.NewTools(engine, repo, traceDB).Register(s)

	if err := server.ServeStdio(s); err != nil {
		logrus.Fatalf("mcp server: %v", err)
	}
}
