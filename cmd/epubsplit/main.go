package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuanying/epubsplit/internal/output"
	"github.com/yuanying/epubsplit/internal/splitter"
)

type cliOptions struct {
	InputPath string
	Mode      splitter.Mode
	Bundle    bool
	MinChars  int
	Logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epubsplit <epub-file>",
		Short: "Split an EPUB into per-chapter text files",
		Long: `epubsplit splits an EPUB ebook into one plain-text file per chapter,
using the book's own table of contents (EPUB 3 nav document or EPUB 2
NCX) and title heuristics to tell real chapters from front/back matter.

Chapter files are written to a <book>_chapters directory next to the
EPUB, optionally bundled into <book>_chapters.zip.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringP("mode", "m", "auto", "Chapter detection mode: auto, strict or loose")
	cmd.Flags().Bool("zip", true, "Also produce a zip bundle of the chapter files")
	cmd.Flags().Int("min-chars", splitter.DefaultMinChapterChars, "Minimum chapter text length in bytes")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")

	return cmd
}

func readCLIOptions(cmd *cobra.Command, args []string) (*cliOptions, error) {
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := splitter.ParseMode(modeFlag)
	if err != nil {
		return nil, err
	}

	bundle, _ := cmd.Flags().GetBool("zip")
	minChars, _ := cmd.Flags().GetInt("min-chars")
	if minChars <= 0 {
		return nil, fmt.Errorf("--min-chars must be positive, got %d", minChars)
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	return &cliOptions{
		InputPath: args[0],
		Mode:      mode,
		Bundle:    bundle,
		MinChars:  minChars,
		Logger:    logger,
	}, nil
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelFlag, _ := cmd.Flags().GetString("log-level")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var level slog.Level
	switch strings.ToLower(levelFlag) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid --log-level %q (want debug, info, warn or error)", levelFlag)
	}
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})), nil
}

func run(cmd *cobra.Command, opts *cliOptions) error {
	h := splitter.DefaultHeuristics()
	h.MinChapterChars = opts.MinChars

	s := splitter.New(splitter.Options{
		InputPath:  opts.InputPath,
		Mode:       opts.Mode,
		Heuristics: h,
		Logger:     opts.Logger,
	})

	chapters, err := s.Split()
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	if len(chapters) == 0 {
		// A valid outcome, not an error: report it and hint at the knobs.
		fmt.Fprintf(cmd.OutOrStdout(),
			"No chapters detected. Try --mode strict or --mode loose, or lower --min-chars.\n")
		return nil
	}

	result, err := output.WriteChapters(chapters, output.Options{
		EPUBPath: opts.InputPath,
		Bundle:   opts.Bundle,
	})
	if err != nil {
		return fmt.Errorf("failed to write chapters: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d chapters to %s\n", len(chapters), result.Dir)
	if result.BundlePath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Bundle: %s\n", result.BundlePath)
	}

	return nil
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
