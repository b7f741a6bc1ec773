// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"ssagraph/internal/config"
	"ssagraph/internal/lsp"
)

const lsName = "ssagraph" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	flags := pflag.NewFlagSet(lsName, pflag.ExitOnError)
	config.BindFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.FromFlags(flags)
	if err != nil {
		commonlog.Configure(1, nil)
		commonlog.GetLogger("ssagraph.lsp").Errorf("invalid configuration: %s", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so logs go to stderr or the configured file
	commonlog.Configure(max(cfg.Log.Verbosity, 1), cfg.LogFile())
	log := commonlog.GetLogger("ssagraph.lsp")

	scriptHandler := lsp.NewScriptHandler(cfg)

	handler = protocol.Handler{
		Initialize:                     scriptHandler.Initialize,
		Initialized:                    scriptHandler.Initialized,
		Shutdown:                       scriptHandler.Shutdown,
		SetTrace:                       scriptHandler.SetTrace,
		TextDocumentDidOpen:            scriptHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           scriptHandler.TextDocumentDidClose,
		TextDocumentDidChange:          scriptHandler.TextDocumentDidChange,
		TextDocumentCompletion:         scriptHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: scriptHandler.TextDocumentSemanticTokensFull,
	}

	// debug: whether to enable internal GLSP debug logs
	s := server.NewServer(&handler, lsName, cfg.Log.Verbosity > 1)

	log.Infof("Starting ssagraph LSP server %s...", version)

	if err := s.RunStdio(); err != nil {
		log.Errorf("Error starting ssagraph LSP server: %s", err)
		os.Exit(1)
	}
}
