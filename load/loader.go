package load

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/uitgo/loadreport/pkg/results"
)

const (
	DefaultResultsDir = "loadtests/results"
)

var (
	printFn = fmt.Printf
)

type LoaderConfig struct {
	ResultsDir  string `yaml:"results-dir" mapstructure:"results-dir" json:"results-dir"`
	Policy      string `yaml:"policy" mapstructure:"policy" json:"policy"`
	Limit       uint64 `yaml:"limit" mapstructure:"limit" json:"limit"`
	ResultsFile string `yaml:"results-file" mapstructure:"results-file" json:"results-file"`
}

func (c LoaderConfig) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("results-dir", DefaultResultsDir, "Directory holding the k6 summary exports (*.json)")
	fs.String("policy", string(PolicyBroad), "File selection policy: 'broad' loads every *.json, 'narrow' only rate-indexed *run_*.json files")
	fs.Uint64("limit", 0, "Number of result files to load (0 = all of them).")
	fs.String("results-file", "", "Write the load summary json to this file")
}

type SkippedFile struct {
	Path   string
	Reason string
}

// Batch is the outcome of one pass over the results directory.
type Batch struct {
	Records  []results.Record
	Skipped  []SkippedFile
	Filtered int
	Seen     int

	Started  time.Time
	Finished time.Time
}

type Loader struct {
	LoaderConfig
	policy     Policy
	classifier *results.Classifier
	extractor  *results.Extractor
	log        logrus.FieldLogger
}

func NewLoader(c LoaderConfig) (*Loader, error) {
	if c.Policy == "" {
		c.Policy = string(PolicyBroad)
	}
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	return &Loader{
		LoaderConfig: c,
		policy:       policy,
		classifier:   results.NewClassifier(policy.Mode()),
		extractor:    results.NewExtractor(),
		log:          logrus.StandardLogger(),
	}, nil
}

func (l *Loader) WithLogger(log logrus.FieldLogger) *Loader {
	l.log = log
	return l
}

// Load never fails: unreadable files are skipped and a missing directory
// yields an empty batch.
func (l *Loader) Load() *Batch {
	b := &Batch{Started: time.Now()}
	defer func() { b.Finished = time.Now() }()

	paths, err := scanResultFiles(l.ResultsDir, l.policy.Accept, l.Limit)
	if err != nil {
		if os.IsNotExist(err) {
			l.log.WithField("dir", l.ResultsDir).Warn("results directory not found")
		} else {
			l.log.WithField("dir", l.ResultsDir).WithError(err).Warn("cannot list results directory")
		}
		return b
	}

	for _, path := range paths {
		b.Seen++
		doc, err := readDocument(path)
		if err != nil {
			l.log.WithFields(logrus.Fields{"file": filepath.Base(path), "error": err}).Warn("skipping result file")
			b.Skipped = append(b.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			continue
		}

		run := l.classifier.Classify(path)
		if !l.policy.Keep(run) {
			l.log.WithFields(logrus.Fields{"file": filepath.Base(path), "rate": run.Rate.String()}).Debug("no target rate, excluded")
			b.Filtered++
			continue
		}

		b.Records = append(b.Records, results.Record{
			ClassifiedRun: run,
			Metrics:       l.extractor.Extract(doc),
			Source:        path,
		})
	}

	if len(b.Records) == 0 {
		l.log.WithField("dir", l.ResultsDir).Warn("no test results found")
	}
	l.log.WithFields(logrus.Fields{
		"records":  len(b.Records),
		"files":    b.Seen,
		"skipped":  len(b.Skipped),
		"filtered": b.Filtered,
		"policy":   l.policy,
	}).Info("results loaded")
	return b
}
