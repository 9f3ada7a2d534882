package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"helmet-analyzer/controller"
	"helmet-analyzer/utils"
)

const defaultConfigPath = "config/analysis.yaml"

func main() {
	// ── CLI flags ────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to analysis.yaml (default "+defaultConfigPath+" if present)")
	logFile := flag.String("log", "", "optional log file path (stderr is always included)")
	outDir := flag.String("out", "", "override report output directory")
	level := flag.String("level", "info", "log level: debug, info, warn, error")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [trial.log ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// ── Logger ───────────────────────────────────────────────────────
	logger := utils.InitLogger(utils.ParseLogLevel(*level), *logFile)
	defer logger.Close()

	// ── Load config ──────────────────────────────────────────────────
	path, err := resolveConfigPath(*configPath)
	if err != nil {
		utils.L().Fatal("locate config: %v", err)
	}
	cfg, err := utils.LoadConfig(path)
	if err != nil {
		utils.L().Fatal("load config: %v", err)
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Analysis.Trials = args
	}
	if *outDir != "" {
		cfg.Report.OutputDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		utils.L().Fatal("validate config: %v", err)
	}

	// ── Pipeline ─────────────────────────────────────────────────────
	//
	//  trial logs ──► AggregateController ──► AverageAll ──► ReportController
	//                                                          │      │
	//                                                       stdout  charts + exports
	analysis, err := controller.NewAnalysisController(cfg).Run()
	if err != nil {
		utils.L().Fatal("analysis failed: %v", err)
	}

	reporter := controller.NewReportController(cfg.Report, os.Stdout)
	if err := reporter.Report(analysis); err != nil {
		utils.L().Fatal("report failed: %v", err)
	}

	if dir := reporter.RunDir(); dir != "" {
		fmt.Println("\n✓ Charts and exports saved to:", dir)
	}
}

// resolveConfigPath returns the explicit -config path, the default path when
// that file exists, or "" to run on built-in defaults.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	_, err := os.Stat(defaultConfigPath)
	switch {
	case err == nil:
		return defaultConfigPath, nil
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	default:
		return "", err
	}
}
