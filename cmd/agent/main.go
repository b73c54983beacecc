// Copyright 2025 solenecodes
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"github.com/solenecodes/web-search-agent/server"
	"github.com/solenecodes/web-search-agent/worker"
)

const (
	ProgramName   = "WSA"
	Version       = "v0.1.0"
	RepositoryUrl = "github.com/solenecodes/web-search-agent"
)

type serveCmd struct {
	Host string `arg:"--host,-H" help:"listen host address"`
	Port int    `arg:"--port,-p" default:"8000" help:"listen port"`
}

type workerCmd struct {
	Workflows   string `arg:"--workflows" default:"workflows.yaml" help:"path to the workflow definitions file"`
	Concurrency int    `arg:"--concurrency" default:"10" help:"number of concurrent task handlers"`
}

type args struct {
	Server *serveCmd  `arg:"subcommand:serve" help:"start the agent HTTP server"`
	Worker *workerCmd `arg:"subcommand:work" help:"start the agent worker"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", ProgramName, Version)
}

func (args) Epilogue() string {
	return fmt.Sprintf("For more information visit %s", RepositoryUrl)
}

func main() {
	var args args

	p, err := arg.NewParser(arg.Config{Program: strings.ToLower(ProgramName)}, &args)
	if err != nil {
		log.Fatalf("there was an error in the definition of the Go struct: %v", err)
	}
	p.MustParse(os.Args[1:])

	if p.Subcommand() == nil {
		p.WriteUsage(os.Stdout)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd := p.Subcommand().(type) {
	case *serveCmd:
		err = startServer(ctx, cmd)
	case *workerCmd:
		err = startWorker(cmd)
	default:
		p.FailSubcommand("unrecognized command", p.SubcommandNames()...)
	}

	if err != nil {
		slog.Error("exited with error", "err", err)
		os.Exit(1)
	}
}

func startServer(ctx context.Context, cmd *serveCmd) error {
	config := serverConfigFromEnv()
	if cmd.Host != "" {
		config.ListenHost = cmd.Host
	}
	if cmd.Port != 0 {
		config.ListenPort = cmd.Port
	}

	srv := server.New(config)
	return srv.Serve(ctx)
}

func startWorker(cmd *workerCmd) error {
	config := workerConfigFromEnv()
	config.WorkflowsPath = cmd.Workflows
	config.Concurrency = cmd.Concurrency

	w := worker.New(config)
	return w.Start()
}
