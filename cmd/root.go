package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vindecoder/internal/cmd/root"
	"vindecoder/internal/vpic"
	"vindecoder/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "vindecoder",
	Short:        "Decode a VIN with the NHTSA vPIC service and export an HTML report",
	SilenceUsage: true,
	RunE:         root.Run,
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./conf/vindecoder.yaml or $HOME/.config/vindecoder/vindecoder.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file (the TUI logs nothing without it)")
	rootCmd.PersistentFlags().Bool("no-tui", false, "Run without TUI, printing results to stdout")
	rootCmd.PersistentFlags().Bool("mock", false, "Use the canned demo decoder instead of vPIC")
	rootCmd.PersistentFlags().String("vin", "", "VIN to decode")
	rootCmd.PersistentFlags().String("model-year", "", "Optional model year")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Write an HTML report to this path")
	rootCmd.PersistentFlags().Duration("timeout", vpic.DefaultTimeout, "Timeout for the vPIC request")
	rootCmd.PersistentFlags().String("base-url", vpic.DefaultBaseURL, "vPIC API base URL")

	for _, name := range []string{"debug", "log-file", "no-tui", "mock", "vin", "model-year", "output", "timeout", "base-url"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Set default values
	viper.SetDefault("debug", false)
	viper.SetDefault("no-tui", false)
	viper.SetDefault("mock", false)
	viper.SetDefault("output", "")
	viper.SetDefault("timeout", vpic.DefaultTimeout)
	viper.SetDefault("base-url", vpic.DefaultBaseURL)
}

// initConfig reads an optional config file and VINDECODER_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vindecoder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./conf")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vindecoder"))
		}
	}

	viper.SetEnvPrefix("vindecoder")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
			os.Exit(1)
		}
	}
}

func initLogger() {
	path := viper.GetString("log-file")
	if path == "" && !viper.GetBool("no-tui") {
		log.Disable()
		return
	}
	log.InitLogger(viper.GetBool("debug"), path)
	if f := viper.ConfigFileUsed(); f != "" {
		log.Debug("using config file", zap.String("path", f))
	}
}

func Execute() {
	defer log.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		log.Sync()
		os.Exit(1)
	}
}
