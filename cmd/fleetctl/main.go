package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fleetdesk-backend/internal/bootstrap"
	"fleetdesk-backend/internal/config"
	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
)

const usage = `usage: fleetctl [-config path] <command> [flags] [args]

commands:
  list          list customers (-state all|active|inactive, -q text)
  show          show one customer as a text block
  add           register customers from a text-block file (-file)
  remove        remove a customer
  refer         link a referred customer to a referrer (requires canRefer)
  set-referrer  set or clear (-clear) who referred a customer
  pay           update one payment week
  renew         extend a customer's return date
  status        activate or deactivate a customer
  import        import customers (-format json|text, -mode replace|merge)
  export        export customers (-format json|text|csv)
  summary       financial summary for a week
  report        financial PDF report for a week (-out)
  pending       pending profiles: add|list|status|convert|remove
  settings      show or update settings
  backup        backup snapshots: create|list|restore
`

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}

	err = run(ctx, app, flag.Args(), os.Stdout, os.Stdin)
	if closeErr := app.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(exitCode(err))
	}
}

// describe renders an error by its kind.
func describe(err error) string {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return "Dados inválidos: " + err.Error()
	case domain.KindTransition:
		return "Operação não permitida: " + err.Error()
	case domain.KindNotFound:
		return "Não encontrado: " + err.Error()
	default:
		return "Erro: " + err.Error()
	}
}

func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindTransition:
		return 3
	case domain.KindNotFound:
		return 4
	default:
		return 1
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, usagef("an input file is required (-file)")
	}
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
