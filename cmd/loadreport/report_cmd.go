package main

import (
	"github.com/blagojts/viper"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/uitgo/loadreport/internal/utils"
	"github.com/uitgo/loadreport/load"
	"github.com/uitgo/loadreport/pkg/report"
	"github.com/uitgo/loadreport/pkg/results"
)

var (
	cfgFile string
)

type cmdRunner func(*cobra.Command, []string) error

// reportStep renders one kind of artifact from the loaded records.
type reportStep func(cmd *cobra.Command, r *report.Renderer, records []results.Record) error

func initRootCMD() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:               "loadreport",
		Short:             "Summarize and compare k6 load test results",
		SilenceUsage:      true,
		PersistentPreRunE: initViperConfig(v),
	}
	cmd.PersistentFlags().AddFlagSet(rootCmdFlags())
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(initReportSubCommands(v)...)
	return cmd
}

func rootCmdFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	load.LoaderConfig{}.AddToFlagSet(fs)
	report.Config{}.AddToFlagSet(fs)
	fs.String("log-level", logrus.InfoLevel.String(), "Log level (debug, info, warn, error)")
	return fs
}

func initReportSubCommands(v *viper.Viper) []*cobra.Command {
	steps := []struct {
		use   string
		short string
		run   reportStep
	}{
		{"summary", "Write summary.csv and summary.md", runSummary},
		{"compare", "Write the Markdown and YAML comparison of two environments", runCompare},
		{"charts", "Render comparison and rate charts as PNG", runCharts},
		{"table", "Print every loaded run as a table", runTable},
		{"all", "Write every report artifact", runAll},
	}

	commands := make([]*cobra.Command, len(steps))
	for i, s := range steps {
		commands[i] = &cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE:  createRunReport(v, s.run),
		}
	}
	return commands
}

func initViperConfig(v *viper.Viper) cmdRunner {
	return func(cmd *cobra.Command, _ []string) error {
		if err := utils.SetupConfigFile(v, cfgFile, cmd.Flags()); err != nil {
			return errors.Wrap(err, "fatal error config file")
		}
		level, err := logrus.ParseLevel(v.GetString("log-level"))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		if used := v.ConfigFileUsed(); used != "" {
			logrus.WithField("file", used).Debug("using config file")
		}
		return nil
	}
}

func parseConfig(v *viper.Viper) (load.LoaderConfig, report.Config, error) {
	var loaderConfig load.LoaderConfig
	var reportConfig report.Config
	if err := v.Unmarshal(&loaderConfig); err != nil {
		return loaderConfig, reportConfig, errors.Wrap(err, "unable to decode loader config")
	}
	if err := v.Unmarshal(&reportConfig); err != nil {
		return loaderConfig, reportConfig, errors.Wrap(err, "unable to decode report config")
	}
	return loaderConfig, reportConfig, nil
}

func createRunReport(v *viper.Viper, step reportStep) cmdRunner {
	return func(cmd *cobra.Command, _ []string) error {
		loaderConfig, reportConfig, err := parseConfig(v)
		if err != nil {
			return err
		}
		r, err := report.NewRenderer(reportConfig, loaderConfig.ResultsDir)
		if err != nil {
			return err
		}
		loader, err := load.NewLoader(loaderConfig)
		if err != nil {
			return err
		}

		batch := loader.Load()
		if err := loader.SaveSummary(batch); err != nil {
			return err
		}

		return step(cmd, r, batch.Records)
	}
}

func runSummary(_ *cobra.Command, r *report.Renderer, records []results.Record) error {
	_, err := r.Summary(records)
	return err
}

func runCompare(_ *cobra.Command, r *report.Renderer, records []results.Record) error {
	_, err := r.Comparison(records)
	return err
}

func runCharts(_ *cobra.Command, r *report.Renderer, records []results.Record) error {
	_, err := r.Charts(records)
	return err
}

func runTable(cmd *cobra.Command, r *report.Renderer, records []results.Record) error {
	return r.Table(cmd.OutOrStdout(), records)
}

func runAll(_ *cobra.Command, r *report.Renderer, records []results.Record) error {
	paths, err := r.All(records)
	if err != nil {
		return err
	}
	logrus.WithField("artifacts", len(paths)).Info("report written")
	return nil
}
