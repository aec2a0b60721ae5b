package shrink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"jarshrink/artifact"
	"jarshrink/core/internal/assemble"
	"jarshrink/core/internal/config"
	"jarshrink/core/internal/launcher"
	"jarshrink/core/internal/logging"
	"jarshrink/core/internal/outputs"
	"jarshrink/core/internal/proguard"
	"jarshrink/core/internal/publish"
	"jarshrink/journal"
)

type Status string

const (
	// StatusSucceeded means the tool ran and returned successfully.
	StatusSucceeded Status = "succeeded"
	// StatusSkipped means a dry run: arguments were assembled, the tool was
	// not invoked and nothing was touched.
	StatusSkipped Status = "skipped"
	// StatusNothingToDo means the primary input was missing and the policy
	// asked to skip.
	StatusNothingToDo Status = "nothing_to_do"
	// StatusBypassed means processing was disabled entirely.
	StatusBypassed Status = "bypassed"
)

type Options struct {
	RunID  string
	Config *config.Config

	// Tool defaults to the java launcher from Config.
	Tool launcher.Tool
	// Remote defaults to a Maven repository client on the project's local
	// repository.
	Remote artifact.RemoteResolver
	// FS defaults to the host filesystem.
	FS        billy.Filesystem
	Publisher publish.Publisher
	Log       *zap.Logger
}

type Result struct {
	RunID       string
	Status      Status
	Arguments   proguard.Options
	Outputs     []outputs.Target
	Attachments []publish.Attachment
	Deleted     []string
	JournalPath string
}

// Run assembles the argument list for one project, prepares outputs and
// invokes the tool. Steps run strictly in sequence.
func Run(ctx context.Context, opts Options) (Result, error) {
	cfg := opts.Config
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", opts.RunID))
	res := Result{RunID: opts.RunID}

	if cfg.Skip {
		log.Info("bypassing obfuscation")
		res.Status = StatusBypassed
		return res, nil
	}

	remote := opts.Remote
	if remote == nil {
		remote = artifact.NewMavenRepository(cfg.LocalRepository, log)
	}
	resolver, err := artifact.NewResolver(artifact.ResolverConfig{
		Dependencies: cfg.Project.Dependencies,
		Modules:      cfg.Project.Modules,
		Remote:       remote,
		Repositories: cfg.Project.Repositories,
		Logger:       log,
	})
	if err != nil {
		return res, err
	}

	inputs, err := assemble.Inputs(cfg.Inputs, resolver, log)
	if err != nil {
		return res, err
	}
	if inputs.Skipped() {
		res.Status = StatusNothingToDo
		return res, nil
	}

	libraries, err := assemble.Libraries(ctx, cfg.Libraries, resolver, log)
	if err != nil {
		return res, err
	}
	flags := flagOptions(cfg, log)

	fs := opts.FS
	if fs == nil {
		fs = osfs.New("/")
	}
	mgr := &outputs.Manager{FS: fs, BuildDir: cfg.BuildDir, DryRun: cfg.DryRun, Log: log}
	if err := mgr.EnsureDir(cfg.OutputDir); err != nil {
		return res, err
	}

	if !cfg.DryRun {
		res.JournalPath = filepath.Join(cfg.OutputDir, journal.FileName)
		j, err := journal.Open(res.JournalPath, opts.RunID)
		if err != nil {
			return res, err
		}
		defer j.Close()
		mgr.Journal = j
		record(j, log, journal.Event{Type: journal.RunStarted, Metadata: map[string]string{"project": cfg.Project.Coordinate().String()}})
	}

	outs, targets, err := mgr.Prepare(cfg.Outputs, cfg.OutputDefaults, inputs)
	if err != nil {
		return res, err
	}
	res.Outputs = targets

	// Inputs are rendered last so that a backup made while preparing outputs
	// is what the tool reads.
	args := make(proguard.Options, 0, inputs.Len()+len(libraries)+len(flags)+len(outs))
	args = append(args, inputs.Options()...)
	args = append(args, libraries...)
	args = append(args, flags...)
	args = append(args, outs...)
	res.Arguments = args

	if cfg.DryRun {
		log.Info("dry run, not invoking the tool", zap.String("command", args.String()))
		res.Status = StatusSkipped
		return res, nil
	}

	tool := opts.Tool
	if tool == nil {
		tool = launcher.JavaTool{Java: cfg.Java, JVMArgs: cfg.JVMArgs, ToolJar: cfg.ToolJar, Log: log}
	}
	toolCtx := ctx
	if cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		toolCtx, cancel = context.WithTimeout(ctx, cfg.ToolTimeout)
		defer cancel()
	}
	log.Info("invoking obfuscation tool", zap.Int("arguments", len(args)))
	record(mgr.Journal, log, journal.Event{Type: journal.ToolStarted})
	started := time.Now()
	if err := tool.Run(toolCtx, args.Strings()); err != nil {
		var te *launcher.ToolError
		if !errors.As(err, &te) {
			err = &launcher.ToolError{Diagnostic: err.Error(), Err: err}
		}
		record(mgr.Journal, log, journal.Event{Type: journal.ToolFinished, Metadata: map[string]string{"error": err.Error()}})
		return res, err
	}
	record(mgr.Journal, log, journal.Event{Type: journal.ToolFinished, Metadata: map[string]string{"duration": time.Since(started).String()}})

	if cfg.DeleteInputFiles {
		res.Deleted, err = mgr.DeleteInputs(inputs, targets)
		if err != nil {
			return res, err
		}
	}

	if cfg.DontAttach {
		log.Info("not attaching artifacts")
	} else {
		pub := opts.Publisher
		var manifest *publish.ManifestPublisher
		if pub == nil {
			manifest = publish.NewManifestPublisher(cfg.OutputDir, opts.RunID, cfg.Project.Coordinate(), log)
			pub = manifest
		}
		res.Attachments, err = attach(pub, cfg, targets, inputs, mgr.Journal, log)
		if err != nil {
			return res, err
		}
		if manifest != nil {
			if err := manifest.Flush(); err != nil {
				return res, err
			}
			res.Attachments = manifest.Attachments()
		}
	}

	record(mgr.Journal, log, journal.Event{Type: journal.RunFinished})
	res.Status = StatusSucceeded
	return res, nil
}

// flagOptions renders the include file, the toggles, the report files, the
// verbose flag and the extra options, in that order.
func flagOptions(cfg *config.Config, log *zap.Logger) proguard.Options {
	var opts proguard.Options
	if cfg.IncludeFile == "" {
		log.Info("ignoring include file")
	} else if f, err := os.Open(cfg.IncludeFile); err == nil {
		_ = f.Close()
		log.Info("including configuration file", zap.String("file", cfg.IncludeFile))
		opts = append(opts, proguard.NewOption(proguard.Include, proguard.Quote(cfg.IncludeFile)))
	} else {
		log.Info("include file could not be read", zap.String("file", cfg.IncludeFile))
	}

	if !cfg.Obfuscate {
		opts = append(opts, proguard.NewOption(proguard.DontObfuscate))
	}
	if !cfg.Shrink {
		opts = append(opts, proguard.NewOption(proguard.DontShrink))
	}
	if cfg.DontWarn {
		opts = append(opts, proguard.NewOption(proguard.DontWarn))
	}
	if cfg.MappingFile != "" {
		opts = append(opts, proguard.NewOption(proguard.PrintMapping, proguard.Quote(cfg.MappingFile)))
	}
	if cfg.SeedsFile != "" {
		opts = append(opts, proguard.NewOption(proguard.PrintSeeds, proguard.Quote(cfg.SeedsFile)))
	}
	if logging.Verbose(log) {
		opts = append(opts, proguard.NewOption(proguard.Verbose))
	}
	return append(opts, cfg.Options...)
}

func attach(pub publish.Publisher, cfg *config.Config, targets []outputs.Target, inputs *assemble.InputSet, j *journal.Journal, log *zap.Logger) ([]publish.Attachment, error) {
	var atts []publish.Attachment
	for _, t := range targets {
		if !t.Attach || inputs.Contains(t.File) {
			continue
		}
		atts = append(atts, publish.Attachment{Type: t.TypeOrDefault(), Classifier: t.Classifier, File: t.File})
	}
	if cfg.MappingFile != "" && cfg.AttachMapping {
		atts = append(atts, reportAttachment(cfg.MappingFile, cfg.OutputDefaults.Classifier))
	}
	if cfg.SeedsFile != "" && cfg.AttachSeeds {
		atts = append(atts, reportAttachment(cfg.SeedsFile, cfg.OutputDefaults.Classifier))
	}

	for _, a := range atts {
		if err := pub.Attach(a); err != nil {
			return nil, err
		}
		record(j, log, journal.Event{Type: journal.Attached, Path: a.File, Metadata: map[string]string{"type": a.Type, "classifier": a.Classifier}})
	}
	return atts, nil
}

// reportAttachment attaches a mapping or seeds file under its extension.
func reportAttachment(path, classifier string) publish.Attachment {
	return publish.Attachment{
		Type:       strings.TrimPrefix(filepath.Ext(path), "."),
		Classifier: classifier,
		File:       path,
	}
}

func record(j *journal.Journal, log *zap.Logger, ev journal.Event) {
	if err := j.Record(ev); err != nil {
		log.Warn("journal write failed", zap.String("type", ev.Type), zap.Error(err))
	}
}
