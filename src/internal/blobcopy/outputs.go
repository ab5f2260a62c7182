package blobcopy

import (
	"os"

	"github.com/shale-scm/shale/src/internal/errors"
	"gopkg.in/yaml.v3"
)

// OutputFiles records each key into one of three files by outcome, so a run
// can be audited or resumed.  Its Record method is not safe for concurrent
// use; Copy serializes calls to it.
type OutputFiles struct {
	success *os.File
	missing *os.File
	errored *os.File
}

// CreateOutputFiles creates (truncating) the three outcome files.  Any of
// the paths may be empty, in which case that outcome is not recorded.
func CreateOutputFiles(successPath, missingPath, erroredPath string) (*OutputFiles, error) {
	o := &OutputFiles{}
	for _, f := range []struct {
		path string
		dst  **os.File
	}{
		{successPath, &o.success},
		{missingPath, &o.missing},
		{erroredPath, &o.errored},
	} {
		if f.path == "" {
			continue
		}
		file, err := os.Create(f.path)
		if err != nil {
			o.Close() //nolint:errcheck
			return nil, errors.Wrapf(err, "creating output file %s", f.path)
		}
		*f.dst = file
	}
	return o, nil
}

// Record writes key to the file for its outcome.
func (o *OutputFiles) Record(key string, outcome Outcome) error {
	var file *os.File
	switch outcome {
	case Copied:
		file = o.success
	case Missing:
		file = o.missing
	case Errored:
		file = o.errored
	}
	if file == nil {
		return nil
	}
	_, err := file.WriteString(key + "\n")
	return errors.Wrapf(err, "recording %s", key)
}

// Close closes all open outcome files.
func (o *OutputFiles) Close() (retErr error) {
	for _, file := range []*os.File{o.success, o.missing, o.errored} {
		if file != nil {
			if err := file.Close(); err != nil {
				errors.JoinInto(&retErr, errors.Wrapf(err, "closing %s", file.Name()))
			}
		}
	}
	return retErr
}

// Report is a machine-readable summary of one run.
type Report struct {
	Keys    int `yaml:"keys"`
	Copied  int `yaml:"copied"`
	Missing int `yaml:"missing"`
	Errored int `yaml:"errored"`
}

// WriteReport writes a YAML summary of the run to path.
func WriteReport(path string, keys int, stats Stats) error {
	data, err := yaml.Marshal(Report{
		Keys:    keys,
		Copied:  stats.Copied,
		Missing: stats.Missing,
		Errored: stats.Errored,
	})
	if err != nil {
		return errors.Wrap(err, "marshalling report")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing report %s", path)
}
