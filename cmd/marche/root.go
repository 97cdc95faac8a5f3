package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"marche/api"
	"marche/auth"
	"marche/cart"
	"marche/localcache"
)

var rootCmd = &cobra.Command{
	Use:           "marche",
	Short:         "Command line storefront for the Marché marketplace",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("api-url", "", "base URL of the storefront API")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the local session cache")
	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
	rootCmd.AddCommand(productsCmd, vendorsCmd, categoriesCmd)
	rootCmd.AddCommand(cartCmd, ordersCmd, checkoutCmd)
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetDefault("api_url", "http://localhost:8080/api")
	viper.SetDefault("data_dir", filepath.Join(home, ".marche"))

	viper.SetEnvPrefix("MARCHE")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(home, ".marche"))
	// A missing config file is fine; env vars and defaults cover everything.
	_ = viper.ReadInConfig()
}

// app bundles the wired stores for one command invocation. Commands are
// short-lived processes, so the session is restored from the cache on every
// run and the cart store reloads itself in whichever mode that produced.
type app struct {
	client *api.Client
	auth   *auth.Store
	cart   *cart.Store
}

func newApp(ctx context.Context) (*app, error) {
	cache, err := localcache.NewFileStore(viper.GetString("data_dir"))
	if err != nil {
		return nil, err
	}

	client := api.NewClient(viper.GetString("api_url"))
	authStore := auth.New(client, cache)
	cartStore := cart.New(client, cache, authStore)
	authStore.Subscribe(cartStore)

	// A successful restore notifies the cart store, which loads the server
	// cart. Otherwise load whatever guest cart the cache holds.
	authStore.Init(ctx)
	if !authStore.IsAuthenticated() {
		cartStore.Reload(ctx)
	}

	return &app{client: client, auth: authStore, cart: cartStore}, nil
}
