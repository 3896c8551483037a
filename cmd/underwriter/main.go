package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/domoslabs/underwriter/internal/audit"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/extract"
	"github.com/domoslabs/underwriter/internal/intake"
	"github.com/domoslabs/underwriter/internal/pipeline"
	"github.com/domoslabs/underwriter/internal/policy"
	"github.com/domoslabs/underwriter/internal/runner"
	"github.com/domoslabs/underwriter/pkg/config"
	"github.com/domoslabs/underwriter/pkg/db"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/logger"
)

const usage = `usage: underwriter <command> [args]

commands:
  process <folder>            run intake on a due diligence folder
  advance <dealPath> <stage>  run analysis stages up to <stage> (1-6)
  status  <dealPath>          print the deal's journey status
  summary <dealPath>          print a markdown summary of the audit trail
  scan                        evaluate pending pipeline deals and move them
`

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "underwriter"})

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	command := os.Args[1]
	args := os.Args[2:]

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "underwriter",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.Storage, logg)
	requireResource(ctx, logg, "deal index database", err)
	defer dbClient.Close()

	index, err := dealstore.NewIndex(dbClient)
	requireResource(ctx, logg, "deal index", err)

	store := dealstore.NewStore()
	locker := dealstore.NewPathLocker(cfg.Audit.LockWait)
	auditLogger := audit.NewLogger(locker, cfg.Audit.SaveMaxAttempts, logg)

	run := runner.New(runner.Options{
		Builder:        intake.NewBuilder(cfg.Storage.ProcessedDealsDir, extract.NewExtractor(logg), store, index, logg),
		Store:          store,
		Index:          index,
		AuditLogger:    auditLogger,
		Underwriting:   policy.NewUnderwritingPolicy(),
		PipelinePolicy: policy.NewPipelinePolicy(),
		Mover:          pipeline.NewMover(cfg.Storage.PipelineDir, store, index, nil, logg),
		Scanner:        pipeline.NewScanner(cfg.Storage.PipelineDir),
		Log:            logg,
	})

	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": command,
	})

	switch command {
	case "process":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: underwriter process <folder>")
			os.Exit(1)
		}
		dealPath, err := run.ProcessFolder(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "intake failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("processed deal:", dealPath)

	case "advance":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: underwriter advance <dealPath> <stage>")
			os.Exit(1)
		}
		number, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid stage %q: %v\n", args[1], err)
			os.Exit(1)
		}
		stage, err := enums.ParseStageNumber(number)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid stage %q: %v\n", args[1], err)
			os.Exit(1)
		}
		result, err := run.RunToStage(ctx, args[0], stage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "advance failed: %v\n", err)
			os.Exit(1)
		}
		printJSON(result)

	case "status":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: underwriter status <dealPath>")
			os.Exit(1)
		}
		status, err := auditLogger.Status(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "status failed: %v\n", err)
			os.Exit(1)
		}
		if status == nil {
			fmt.Println("no analysis journey yet")
			return
		}
		printJSON(status)

	case "summary":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: underwriter summary <dealPath>")
			os.Exit(1)
		}
		summary, err := auditLogger.Summarize(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "summary failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(summary)

	case "scan":
		moved, err := run.ProcessPending(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
			os.Exit(1)
		}
		if len(moved) == 0 {
			fmt.Println("no pending deals")
			return
		}
		printJSON(moved)

	default:
		fmt.Fprintln(os.Stderr, "unknown command:", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to bootstrap "+resource, err)
	os.Exit(1)
}
