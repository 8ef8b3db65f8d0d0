package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	_ "todo-api/configs"
	"todo-api/internal/client"
	"todo-api/internal/client/tui"
	"todo-api/internal/domain/gateway/api"
	"todo-api/pkg/http"
	"todo-api/pkg/log"
	"todo-api/pkg/resource"
)

func main() {
	// The TUI owns stdout; keep logs out of the way.
	log.Replace(zap.NewNop())
	if path := os.Getenv("TODO_TUI_LOG"); path != "" {
		if logger, err := fileLogger(path); err == nil {
			log.Replace(logger)
		}
	}
	defer log.Sync()

	timeout := resource.GetDuration("app.client.timeout")
	gateway := api.NewTodoGateway(resource.GetString("app.client.api-url"), http.ClientOptions{
		ConnectionTimeout: timeout,
		ReadTimeout:       timeout,
		DefaultHeaders:    map[string]string{"User-Agent": "todo-tui"},
	})

	view := client.NewView(gateway)
	if err := tui.Run(view, timeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fileLogger(path string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	return config.Build(zap.AddCallerSkip(1))
}
