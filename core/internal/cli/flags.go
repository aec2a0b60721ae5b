package cli

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jarshrink/core/internal/config"
	"jarshrink/core/internal/logging"
	"jarshrink/core/internal/project"
	"jarshrink/core/internal/shrink"
)

// runFlags are shared by the commands that drive a pipeline run.
type runFlags struct {
	configPath  string
	projectPath string
	runID       string
	buildDir    string
	test        bool
	skip        bool
	dontAttach  bool
	verbose     bool
	timeout     time.Duration
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", config.DefaultFile, "Configuration file")
	cmd.Flags().StringVar(&f.projectPath, "project", project.DefaultFile, "Project description file")
	cmd.Flags().StringVar(&f.runID, "run-id", "", "Run ID (default: random UUID)")
	cmd.Flags().StringVar(&f.buildDir, "build-dir", "", "Build directory (default: from the project)")
	cmd.Flags().BoolVar(&f.skip, "skip", false, "Bypass processing entirely")
	cmd.Flags().BoolVar(&f.dontAttach, "dont-attach", false, "Do not attach outputs to the build result")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Debug logging; also passes -verbose to the tool")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Minute, "Overall run timeout")
}

// run loads the project and configuration, applies flag overrides and runs
// the pipeline. dryRun forces a dry run.
func (f *runFlags) run(cmd *cobra.Command, dryRun bool) (shrink.Result, error) {
	settings, err := config.Load(f.configPath)
	if err != nil {
		return shrink.Result{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("skip") {
		settings.Skip = f.skip
	}
	if flags.Changed("test") {
		settings.Test = f.test
	}
	if flags.Changed("dont-attach") {
		settings.DontAttach = f.dontAttach
	}
	if f.buildDir != "" {
		settings.BuildDirectory = f.buildDir
	}
	if dryRun {
		settings.Test = true
	}

	proj, err := project.Load(f.projectPath)
	if err != nil {
		return shrink.Result{}, err
	}
	cfg, err := settings.Resolve(proj)
	if err != nil {
		return shrink.Result{}, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, f.verbose)
	if err != nil {
		return shrink.Result{}, err
	}
	defer func() { _ = logger.Sync() }()

	if f.runID == "" {
		f.runID = uuid.NewString()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	logger.Debug("starting run", zap.String("run_id", f.runID), zap.String("project", proj.Coordinate().String()))
	return shrink.Run(ctx, shrink.Options{
		RunID:  f.runID,
		Config: cfg,
		Log:    logger,
	})
}
