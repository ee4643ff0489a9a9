package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/chatstream/internal/apps"
	"github.com/user/chatstream/internal/types"
)

var (
	appBaseURL     string
	appAPIKey      string
	appDescription string
	appRename      string
)

func init() {
	rootCmd.AddCommand(appCmd)

	appAddCmd.Flags().StringVar(&appBaseURL, "base-url", "", "API base URL (required)")
	appAddCmd.Flags().StringVar(&appAPIKey, "api-key", "", "API key (required)")
	appAddCmd.Flags().StringVar(&appDescription, "description", "", "free-form description")
	appAddCmd.MarkFlagRequired("base-url")
	appAddCmd.MarkFlagRequired("api-key")

	appUpdateCmd.Flags().StringVar(&appBaseURL, "base-url", "", "new API base URL")
	appUpdateCmd.Flags().StringVar(&appAPIKey, "api-key", "", "new API key")
	appUpdateCmd.Flags().StringVar(&appDescription, "description", "", "new description")
	appUpdateCmd.Flags().StringVar(&appRename, "name", "", "new name")

	appCmd.AddCommand(appListCmd, appAddCmd, appUpdateCmd, appDeleteCmd)
}

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Manage stored backend applications",
}

func openAppStore() *apps.Store {
	cfg := loadConfig()
	setupLogging(cfg)
	return apps.NewStore(cfg.DataDir)
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored apps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openAppStore()
		list, err := store.List(context.Background())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No apps stored.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBASE URL\tDESCRIPTION")
		for _, app := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", app.ID, app.Name, app.BaseURL, app.Description)
		}
		return w.Flush()
	},
}

var appAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store a new app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openAppStore()
		app := &types.AppConfig{
			Name:        args[0],
			BaseURL:     appBaseURL,
			APIKey:      appAPIKey,
			Description: appDescription,
		}
		if err := store.Add(context.Background(), app); err != nil {
			return err
		}
		fmt.Printf("Added app %s (%s)\n", app.Name, app.ID)
		return nil
	},
}

var appUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a stored app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openAppStore()
		ctx := context.Background()
		app, err := store.GetByName(ctx, args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("base-url") {
			app.BaseURL = appBaseURL
		}
		if cmd.Flags().Changed("api-key") {
			app.APIKey = appAPIKey
		}
		if cmd.Flags().Changed("description") {
			app.Description = appDescription
		}
		if cmd.Flags().Changed("name") {
			app.Name = appRename
		}
		if err := store.Update(ctx, app); err != nil {
			return err
		}
		fmt.Printf("Updated app %s\n", app.Name)
		return nil
	},
}

var appDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openAppStore()
		ctx := context.Background()
		app, err := store.GetByName(ctx, args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, app.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted app %s\n", app.Name)
		return nil
	},
}
