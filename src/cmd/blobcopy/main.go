// Command blobcopy copies a list of blob keys from one object store to
// another.  It is an emergency tool: the key list typically comes from a
// scan of a corrupted repo, and the copy is unordered.
//
//	blobcopy s3://backup-bucket s3://prod-bucket \
//	    --input-file keys.txt --strip-prefix repo0001. \
//	    --missing-keys-output missing.txt
package main

import (
	"os"

	"github.com/shale-scm/shale/src/internal/blobcopy"
	"github.com/shale-scm/shale/src/internal/cmdutil"
	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/log"
	"github.com/shale-scm/shale/src/internal/obj"
	"github.com/shale-scm/shale/src/internal/pctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type config struct {
	inputFile   string
	concurrency int
	ignoreErrs  bool
	stripPrefix string

	successKeysPath string
	missingKeysPath string
	errorKeysPath   string
	reportPath      string
}

func main() {
	var cfg config
	rootCmd := &cobra.Command{
		Use:   "blobcopy <source-url> <target-url>",
		Short: "Copy a list of blob keys between object stores.",
		Long: "Copy a list of blob keys between object stores.  Keys are read " +
			"from --input-file (or stdin) and copied in no particular order.",
		Run: cmdutil.RunFixedArgs(2, func(args []string) error {
			return run(args[0], args[1], cfg)
		}),
	}
	rootCmd.Flags().StringVar(&cfg.inputFile, "input-file", "", "File with a newline-separated list of keys to copy; defaults to stdin.")
	rootCmd.Flags().IntVar(&cfg.concurrency, "concurrency", blobcopy.DefaultConcurrency, "Number of keys to copy at once.")
	rootCmd.Flags().BoolVar(&cfg.ignoreErrs, "ignore-errors", false, "Keep copying when a key fails; failed keys are still recorded.")
	rootCmd.Flags().StringVar(&cfg.stripPrefix, "strip-prefix", "", "Prefix to strip from every input key; keys without it are an error.")
	rootCmd.Flags().StringVar(&cfg.successKeysPath, "success-keys-output", "", "File to write successfully copied keys to.")
	rootCmd.Flags().StringVar(&cfg.missingKeysPath, "missing-keys-output", "", "File to write keys missing from the source to.")
	rootCmd.Flags().StringVar(&cfg.errorKeysPath, "error-keys-output", "", "File to write keys that failed to copy to.")
	rootCmd.Flags().StringVar(&cfg.reportPath, "report", "", "File to write a YAML summary of the run to.")
	if err := rootCmd.Execute(); err != nil {
		cmdutil.ErrorAndExit("%v", err)
	}
}

func run(srcURL, dstURL string, cfg config) (retErr error) {
	ctx := pctx.Background("blobcopy")

	keys, err := readKeys(cfg)
	if err != nil {
		return err
	}
	src, err := obj.NewClientFromURL(ctx, srcURL)
	if err != nil {
		return errors.Wrapf(err, "source %s", srcURL)
	}
	dst, err := obj.NewClientFromURL(ctx, dstURL)
	if err != nil {
		return errors.Wrapf(err, "target %s", dstURL)
	}

	outputs, err := blobcopy.CreateOutputFiles(cfg.successKeysPath, cfg.missingKeysPath, cfg.errorKeysPath)
	if err != nil {
		return err
	}
	defer errors.Close(&retErr, outputs, "close output files")

	stats, err := blobcopy.Copy(ctx, src, dst, keys, blobcopy.Config{
		Concurrency:  cfg.concurrency,
		IgnoreErrors: cfg.ignoreErrs,
	}, outputs.Record)
	if err != nil {
		return err
	}
	if cfg.reportPath != "" {
		if err := blobcopy.WriteReport(cfg.reportPath, len(keys), stats); err != nil {
			return err
		}
	}
	if stats.Errored > 0 {
		log.Error(ctx, "some keys failed to copy", zap.Int("errored", stats.Errored))
	}
	return nil
}

func readKeys(cfg config) ([]string, error) {
	if cfg.inputFile == "" {
		return blobcopy.ReadKeys(os.Stdin, cfg.stripPrefix)
	}
	f, err := os.Open(cfg.inputFile)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", cfg.inputFile)
	}
	defer f.Close() //nolint:errcheck
	return blobcopy.ReadKeys(f, cfg.stripPrefix)
}
