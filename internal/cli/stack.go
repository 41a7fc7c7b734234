package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stackpng/stackpng/internal/config"
	"github.com/stackpng/stackpng/internal/imaging"
	"github.com/stackpng/stackpng/internal/inputs"
	"github.com/stackpng/stackpng/internal/logging"
	"github.com/stackpng/stackpng/internal/mcmeta"
	"github.com/stackpng/stackpng/internal/store"
)

// StackOptions holds flags for the build command.
type StackOptions struct {
	*RootOptions
	Name              string
	FrameTime         uint16
	DisableMCMeta     bool
	IgnoreInvalid     bool
	Resize            bool
	IgnoreAspectRatio bool
	OutputDir         string
	Sort              string
	Yes               bool
	Rebuild           bool
}

// StackResult describes the files a build produced.
type StackResult struct {
	Image       string `json:"image"`
	Meta        string `json:"meta,omitempty"` // empty when the descriptor is disabled
	Frames      int    `json:"frames"`
	FrameWidth  int    `json:"frame_width"`
	FrameHeight int    `json:"frame_height"`
	FrameTime   uint16 `json:"frame_time"`
	UpToDate    bool   `json:"up_to_date,omitempty"`
	RunID       string `json:"run_id,omitempty"` // set when history is enabled
}

// NewStackCommand creates the build command. It is used as the root command.
func NewStackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StackOptions{RootOptions: rootOpts}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "stackpng [flags] <folder> | <files...>",
		Short: "Stack PNG frames into one animation strip",
		Long: `Combine same-sized PNG frames into a single vertically stacked image and
write an .mcmeta animation descriptor next to it.

Frames are stacked top to bottom in argument order. A single folder argument
is expanded to the PNG files it contains, sorted by name.

Exit codes:
  0 - Build succeeded (or the output was already up to date)
  1 - Build failed (undecodable frame, mismatched frames, overwrite refused)
  2 - Command error (invalid flags, missing paths, invalid configuration)

Examples:
  stackpng ./frames
  stackpng -n water_still -f 4 frame_0.png frame_1.png frame_2.png
  stackpng --resize --ignore-aspect-ratio -o out ./frames
  stackpng --history ./stackpng.db --format json ./frames`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return NewExitError(ExitCommandError, "expected a folder or one or more PNG files").
					WithHint("see 'stackpng --help'")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStack(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", defaults.Name, "output base name; writes <name>.png")
	cmd.Flags().Uint16VarP(&opts.FrameTime, "frame-time", "f", defaults.FrameTime, "ticks each frame is shown")
	cmd.Flags().BoolVarP(&opts.DisableMCMeta, "disable-mcmeta", "d", false, "do not write the .mcmeta descriptor")
	cmd.Flags().BoolVarP(&opts.IgnoreInvalid, "ignore-invalid", "i", false, "skip files that are not PNGs")
	cmd.Flags().BoolVarP(&opts.Resize, "resize", "r", false, "scale frames that differ from the first frame")
	cmd.Flags().BoolVarP(&opts.IgnoreAspectRatio, "ignore-aspect-ratio", "a", false, "with --resize, stretch frames to the exact size")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", defaults.OutputDir, "directory for the output files")
	cmd.Flags().StringVar(&opts.Sort, "sort", defaults.Sort, "folder ordering (lexical|natural)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "overwrite existing output without asking")
	cmd.Flags().BoolVar(&opts.Rebuild, "rebuild", false, "build even when the history says the output is up to date")

	return cmd
}

// applyFlags overlays explicitly set build flags onto cfg.
func (o *StackOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = o.Name
	}
	if flags.Changed("frame-time") {
		cfg.FrameTime = o.FrameTime
	}
	if flags.Changed("disable-mcmeta") {
		cfg.DisableMCMeta = o.DisableMCMeta
	}
	if flags.Changed("ignore-invalid") {
		cfg.IgnoreInvalid = o.IgnoreInvalid
	}
	if flags.Changed("resize") {
		cfg.Resize = o.Resize
	}
	if flags.Changed("ignore-aspect-ratio") {
		cfg.IgnoreAspectRatio = o.IgnoreAspectRatio
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = o.OutputDir
	}
	if flags.Changed("sort") {
		cfg.Sort = o.Sort
	}
}

// outputs are the files one build writes.
type outputs struct {
	image string
	meta  string // empty when the descriptor is disabled
}

func outputsFor(cfg config.Config) outputs {
	out := outputs{image: filepath.Join(cfg.OutputDir, cfg.Name+".png")}
	if !cfg.DisableMCMeta {
		out.meta = mcmeta.SidecarPath(out.image)
	}
	return out
}

func (o outputs) all() []string {
	if o.meta == "" {
		return []string{o.image}
	}
	return []string{o.image, o.meta}
}

func (o outputs) existing() []string {
	var found []string
	for _, p := range o.all() {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	return found
}

func runStack(opts *StackOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings(cmd, opts.RootOptions, func(cfg *config.Config) {
		opts.applyFlags(cmd, cfg)
	})
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return configError(err)
	}
	defer func() { _ = log.Sync() }()

	sortMode, err := inputs.ParseSortMode(cfg.Sort)
	if err != nil {
		return configError(err)
	}
	paths, err := inputs.Resolve(args, inputs.Options{IgnoreInvalid: cfg.IgnoreInvalid, Sort: sortMode})
	if err != nil {
		return inputError(err)
	}
	log.Debug("resolved inputs", zap.Int("count", len(paths)), zap.Strings("paths", paths))

	out := outputsFor(cfg)
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	con := newConsole(cmd.OutOrStdout(), cfg.Color)

	var hist *buildHistory
	if cfg.History != "" {
		hist, err = openBuildHistory(cfg, paths, out)
		if err != nil {
			return err
		}
		defer hist.Close()

		if !opts.Rebuild {
			latest, ok, err := hist.upToDate(ctx, out)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read history", err)
			}
			if ok {
				log.Debug("output is up to date", zap.String("run", latest.ID), zap.String("fingerprint", latest.Fingerprint))
				return reportUpToDate(formatter, con, out, latest)
			}
		}
	}

	if existing := out.existing(); len(existing) > 0 {
		interactive := isTerminalReader(cmd.InOrStdin())
		if err := confirmOverwrite(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), opts.Yes, interactive, existing); err != nil {
			return WrapExitError(ExitFailure, "not overwriting output", err)
		}
	}

	result, err := imaging.Process(paths, imaging.Options{
		Resize:            cfg.Resize,
		IgnoreAspectRatio: cfg.IgnoreAspectRatio,
		Logger:            log,
	})
	if err != nil {
		return buildError(err)
	}

	var meta []byte
	if out.meta != "" {
		meta, err = mcmeta.New(cfg.FrameTime, result.Frame).Marshal()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to encode descriptor", err)
		}
	}
	if err := writeOutputs(out, result.Image, meta); err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}
	log.Debug("wrote outputs", zap.Strings("files", out.all()))

	stackResult := StackResult{
		Image:       out.image,
		Meta:        out.meta,
		Frames:      result.Count,
		FrameWidth:  result.Frame.Width,
		FrameHeight: result.Frame.Height,
		FrameTime:   cfg.FrameTime,
	}

	if hist != nil {
		run, err := hist.record(ctx, cfg, result)
		if err != nil {
			// The files are already written at this point.
			return WrapExitError(ExitFailure, "failed to record run", err)
		}
		stackResult.RunID = run.ID
		log.Info("recorded run", zap.String("run", run.ID), zap.Int64("seq", run.Seq))
	}

	if opts.Format == "json" {
		return formatter.Success(stackResult)
	}
	con.Successf("Created %s (%d frames of %s)", out.image, result.Count, result.Frame)
	if out.meta != "" {
		con.Successf("Created %s (frametime %d)", out.meta, cfg.FrameTime)
	}
	return nil
}

func reportUpToDate(formatter *OutputFormatter, con *console, out outputs, latest store.Run) error {
	if formatter.Format == "json" {
		return formatter.Success(StackResult{
			Image:       out.image,
			Meta:        out.meta,
			Frames:      latest.FrameCount,
			FrameWidth:  latest.FrameWidth,
			FrameHeight: latest.FrameHeight,
			FrameTime:   latest.FrameTime,
			UpToDate:    true,
			RunID:       latest.ID,
		})
	}
	con.Noticef("%s is up to date (run %s); use --rebuild to build anyway", out.image, latest.ID)
	return nil
}

// writeOutputs encodes everything, stages each file next to its target and
// only then renames the staged files into place, so a failed write never
// pairs a new image with a stale descriptor. The descriptor is renamed
// first.
func writeOutputs(out outputs, img image.Image, meta []byte) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", out.image, err)
	}

	if err := os.MkdirAll(filepath.Dir(out.image), 0755); err != nil {
		return err
	}

	type staged struct{ tmp, dst string }
	var files []staged
	defer func() {
		for _, f := range files {
			os.Remove(f.tmp)
		}
	}()

	if out.meta != "" {
		tmp, err := stageFile(out.meta, meta)
		if err != nil {
			return err
		}
		files = append(files, staged{tmp, out.meta})
	}
	tmp, err := stageFile(out.image, buf.Bytes())
	if err != nil {
		return err
	}
	files = append(files, staged{tmp, out.image})

	for _, f := range files {
		if err := os.Rename(f.tmp, f.dst); err != nil {
			return err
		}
	}
	return nil
}

// stageFile writes data to a temporary file in dst's directory and returns
// its path.
func stageFile(dst string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// buildHistory ties one build to the run history database.
type buildHistory struct {
	st          *store.Store
	imageKey    string // absolute image path
	metaKey     string
	digests     []store.InputDigest
	fingerprint string
}

func openBuildHistory(cfg config.Config, paths []string, out outputs) (*buildHistory, error) {
	imageKey, err := filepath.Abs(out.image)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve output path", err)
	}
	var metaKey string
	if out.meta != "" {
		metaKey = mcmeta.SidecarPath(imageKey)
	}

	digests, err := store.DigestFiles(paths)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read inputs", err)
	}
	fingerprint, err := store.Fingerprint(digests, store.Settings{
		Resize:            cfg.Resize,
		IgnoreAspectRatio: cfg.IgnoreAspectRatio,
		DisableMCMeta:     cfg.DisableMCMeta,
		FrameTime:         cfg.FrameTime,
	})
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to fingerprint inputs", err)
	}

	st, err := store.Open(cfg.History)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	return &buildHistory{
		st:          st,
		imageKey:    imageKey,
		metaKey:     metaKey,
		digests:     digests,
		fingerprint: fingerprint,
	}, nil
}

func (h *buildHistory) Close() error {
	return h.st.Close()
}

// upToDate reports whether the latest run for this image had the same
// fingerprint and its files are still intact.
func (h *buildHistory) upToDate(ctx context.Context, out outputs) (store.Run, bool, error) {
	latest, err := h.st.LatestRunForOutput(ctx, h.imageKey)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	if latest.Fingerprint != h.fingerprint {
		return store.Run{}, false, nil
	}
	if !outputsMatch(out, latest) {
		return store.Run{}, false, nil
	}
	return latest, true, nil
}

// outputsMatch reports whether the files on disk still describe run: the
// image header has the recorded canvas size and the sidecar parses to the
// recorded descriptor.
func outputsMatch(out outputs, run store.Run) bool {
	f, err := os.Open(out.image)
	if err != nil {
		return false
	}
	defer f.Close()
	header, err := png.DecodeConfig(f)
	if err != nil || header.Width != run.FrameWidth || header.Height != run.FrameHeight*run.FrameCount {
		return false
	}

	if out.meta == "" {
		return true
	}
	data, err := os.ReadFile(out.meta)
	if err != nil {
		return false
	}
	d, err := mcmeta.Parse(data)
	if err != nil {
		return false
	}
	return d == mcmeta.New(run.FrameTime, imaging.Dimensions{Width: run.FrameWidth, Height: run.FrameHeight})
}

func (h *buildHistory) record(ctx context.Context, cfg config.Config, result *imaging.Result) (store.Run, error) {
	return h.st.RecordRun(ctx, store.Run{
		Name:        cfg.Name,
		ImagePath:   h.imageKey,
		MetaPath:    h.metaKey,
		FrameCount:  result.Count,
		FrameWidth:  result.Frame.Width,
		FrameHeight: result.Frame.Height,
		FrameTime:   cfg.FrameTime,
		Fingerprint: h.fingerprint,
		Inputs:      h.digests,
	})
}
