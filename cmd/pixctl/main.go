package main

import (
	"fmt"
	"os"

	"cervejaria_storefront/internal/config"
	"cervejaria_storefront/internal/infrastructure/backend"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "pixctl",
		Short:   "pixctl - place storefront orders and follow their PIX payment",
		Version: Version,
	}
	rootCmd.PersistentFlags().String("api-url", "", "Storefront backend URL (defaults to STOREFRONT_API_URL)")
	rootCmd.PersistentFlags().String("token", os.Getenv("STOREFRONT_TOKEN"), "Customer bearer token")

	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(checkoutCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadClient builds the storefront client from the environment, letting
// --api-url override the configured URL.
func loadClient(cmd *cobra.Command) (*config.Config, *backend.StorefrontClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if url, _ := cmd.Flags().GetString("api-url"); url != "" {
		cfg.StorefrontAPIURL = url
	}
	return cfg, backend.NewStorefrontClient(cfg.StorefrontAPIURL, cfg.BackendTimeout), nil
}

func tokenFlag(cmd *cobra.Command) string {
	token, _ := cmd.Flags().GetString("token")
	return token
}
