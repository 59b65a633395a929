package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

var (
	cfgFile string
	Verbose bool
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "syl")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SYL")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "syl"))
	viper.SetDefault("editor", os.Getenv("EDITOR"))
	viper.SetDefault("history_limit", tree.DefaultHistoryLimit)
	viper.SetDefault("export_format", "zip")
	viper.SetDefault("filename_format", string(models.FilenameFormatTitle))
	viper.SetDefault("weeks", 4)

	// A missing config file is fine; defaults and environment cover everything.
	_ = viper.ReadInConfig()
}

// NewLogger creates the root logger. Output goes to stderr so command output stays
// pipeable.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel) // Keep it quiet unless there are issues.
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func InitService(logger *logrus.Logger) (*service.Service, error) {
	config := &service.Config{
		DataDir:      viper.GetString("data_dir"),
		Editor:       viper.GetString("editor"),
		HistoryLimit: viper.GetInt("history_limit"),
		ExportFormat: viper.GetString("export_format"),
		Filenames:    models.FilenameFormat(viper.GetString("filename_format")),
		Weeks:        viper.GetInt("weeks"),
	}

	svc, err := service.New(config, logrus.NewEntry(logger).WithField("component", "syl"))
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/syl/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable debug logging")
}
