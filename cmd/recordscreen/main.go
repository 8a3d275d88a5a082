package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/recordscreen/pkg/crecord"
	"github.com/coolbeans/recordscreen/pkg/fetch"
	"github.com/coolbeans/recordscreen/pkg/pdftext"
	"github.com/coolbeans/recordscreen/pkg/petition"
	"github.com/coolbeans/recordscreen/pkg/screen"
	"github.com/coolbeans/recordscreen/pkg/sourcerecord"
	"github.com/coolbeans/recordscreen/pkg/storage"
	"github.com/coolbeans/recordscreen/pkg/types"
)

var version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recordscreen",
		Short: "Criminal record expungement and sealing screener",
		Long: `Recordscreen reads Pennsylvania court docket sheets and summaries,
builds a person's criminal record from them, and screens the record
against the expungement and sealing rules.

It reports, case by case and charge by charge, what can be expunged
or sealed and why, and builds the filing context for petitions.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.recordscreen.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(screenCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(petitionCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".recordscreen")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("recordscreen")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}
	if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && cfgFile == "" {
		return nil
	}
	return err
}

// newScreener assembles the pipeline from what the config provides. The
// portal client and the cache are both optional.
func newScreener() (*screen.Screener, func(), error) {
	s := &screen.Screener{
		Extractor: pdftext.New(),
		Logger:    logrus.StandardLogger(),
	}
	cleanup := func() {}

	if portalURL := viper.GetString("portal.url"); portalURL != "" {
		s.Portal = fetch.NewClient(portalURL, logrus.StandardLogger())
	}
	if cachePath := viper.GetString("cache.path"); cachePath != "" {
		db, err := storage.Open(cachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache %s: %w", cachePath, err)
		}
		s.Cache = db
		cleanup = func() { db.Close() }
	}
	return s, cleanup, nil
}

func configuredAttorney() *crecord.Attorney {
	return &crecord.Attorney{
		Organization:      viper.GetString("attorney.organization"),
		FullName:          viper.GetString("attorney.full_name"),
		Address:           crecord.Address{LineOne: viper.GetString("attorney.address")},
		OrganizationPhone: viper.GetString("attorney.organization_phone"),
		BarID:             viper.GetString("attorney.bar_id"),
	}
}

func writeResults(results *screen.Results, outputPath string) error {
	out, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return err
	}
	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return err
	}
	logrus.WithField("path", outputPath).Info("Analysis written")
	return nil
}

func screenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen a criminal record for expungeable and sealable charges",
	}

	var output string

	dirCmd := &cobra.Command{
		Use:   "dir [directory]",
		Short: "Screen the docket and summary PDFs in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newScreener()
			if err != nil {
				return err
			}
			defer cleanup()
			results, err := s.ScreenDirectory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeResults(results, output)
		},
	}
	dirCmd.Flags().StringVarP(&output, "output", "o", "", "write results JSON to a file instead of stdout")

	var dob string
	nameCmd := &cobra.Command{
		Use:   "name [first] [last]",
		Short: "Search the court portal for a person and screen their record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newScreener()
			if err != nil {
				return err
			}
			defer cleanup()
			if s.Portal == nil {
				return fmt.Errorf("screening by name needs portal.url in the config")
			}
			var birthDate *types.Date
			if dob != "" {
				t, err := time.Parse("2006-01-02", dob)
				if err != nil {
					return fmt.Errorf("invalid date of birth %q: %w", dob, err)
				}
				parsed := types.FromTime(t)
				birthDate = &parsed
			}
			results, err := s.ScreenName(cmd.Context(), args[0], args[1], birthDate)
			if err != nil {
				return err
			}
			return writeResults(results, output)
		},
	}
	nameCmd.Flags().StringVar(&dob, "dob", "", "date of birth, YYYY-MM-DD")
	nameCmd.Flags().StringVarP(&output, "output", "o", "", "write results JSON to a file instead of stdout")

	cmd.AddCommand(dirCmd)
	cmd.AddCommand(nameCmd)
	return cmd
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [document.pdf]",
		Short: "Parse one docket or summary PDF and print what was read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := pdftext.New().ExtractFile(args[0])
			if text == "" {
				return fmt.Errorf("could not extract text from %s", args[0])
			}
			sr := sourcerecord.FromText(text)
			if sr == nil {
				return fmt.Errorf("could not classify %s as a docket or summary", args[0])
			}
			sr.Parse()
			out, err := json.MarshalIndent(sr, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// attorneyFromFile reads attorney details from a standalone YAML file,
// for users who keep them outside the main config.
func attorneyFromFile(path string) (*crecord.Attorney, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var details struct {
		Organization      string `yaml:"organization"`
		FullName          string `yaml:"full_name"`
		Address           string `yaml:"address"`
		OrganizationPhone string `yaml:"organization_phone"`
		BarID             string `yaml:"bar_id"`
	}
	if err := yaml.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("reading attorney file %s: %w", path, err)
	}
	return &crecord.Attorney{
		Organization:      details.Organization,
		FullName:          details.FullName,
		Address:           crecord.Address{LineOne: details.Address},
		OrganizationPhone: details.OrganizationPhone,
		BarID:             details.BarID,
	}, nil
}

func petitionCmd() *cobra.Command {
	var output string
	var attorneyFile string
	cmd := &cobra.Command{
		Use:   "petition [directory]",
		Short: "Screen a directory and build petition contexts for every finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newScreener()
			if err != nil {
				return err
			}
			defer cleanup()
			results, err := s.ScreenDirectory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			attorney := configuredAttorney()
			if attorneyFile != "" {
				attorney, err = attorneyFromFile(attorneyFile)
				if err != nil {
					return err
				}
			}
			client := results.Analysis.Record().Person
			petitions := petition.FromAnalysis(results.Analysis, attorney, client)
			logrus.WithField("count", len(petitions)).Info("Built petitions")

			today := types.Today()
			contexts := make([]map[string]interface{}, 0, len(petitions))
			for _, p := range petitions {
				ctx := p.Context(today)
				ctx["file_name"] = p.FileName()
				contexts = append(contexts, ctx)
			}
			out, err := json.MarshalIndent(contexts, "", "    ")
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Println(string(out))
				return nil
			}
			return os.WriteFile(output, out, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write petition contexts JSON to a file")
	cmd.Flags().StringVar(&attorneyFile, "attorney", "", "YAML file with the filing attorney's details")
	return cmd
}

func watchCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch a directory and re-screen whenever documents change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			s, cleanup, err := newScreener()
			if err != nil {
				return err
			}
			defer cleanup()

			rescreen := func() {
				results, err := s.ScreenDirectory(cmd.Context(), dir)
				if err != nil {
					logrus.WithError(err).Error("Screening failed")
					return
				}
				if err := writeResults(results, output); err != nil {
					logrus.WithError(err).Error("Writing results failed")
				}
			}
			rescreen()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			if err := watcher.Add(dir); err != nil {
				return err
			}
			logrus.WithField("dir", dir).Info("Watching for documents")

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
						continue
					}
					if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
						continue
					}
					logrus.WithField("file", event.Name).Info("Document changed")
					rescreen()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logrus.WithError(err).Error("Watcher error")
				}
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write results JSON to a file instead of stdout")
	return cmd
}
