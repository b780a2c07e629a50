package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"storefront/internal/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - shop from the command line",
	Long: `Storefront is a client for the storefront API: browse the catalog,
manage a local cart, and place orders.

The cart and login credential are kept in a local state directory and
survive between runs.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("api-url", "", "base URL of the storefront API")
	rootCmd.PersistentFlags().String("state-dir", "", "directory for cart and credential state")
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("state_dir", rootCmd.PersistentFlags().Lookup("state-dir"))
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".storefront")
		viper.SetConfigType("yaml")
		viper.SetDefault("state_dir", filepath.Join(home, ".storefront-state"))
	}
	viper.SetDefault("api_url", "http://localhost:8080")
	viper.SetEnvPrefix("storefront")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// newSession builds the API client and restores persisted state.
func newSession() (*client.Session, *client.Client, error) {
	api := client.New(viper.GetString("api_url"))

	storage, err := client.NewStorage(viper.GetString("state_dir"))
	if err != nil {
		return nil, nil, err
	}

	session, err := client.NewSession(api, storage)
	if err != nil {
		return nil, nil, err
	}
	return session, api, nil
}
