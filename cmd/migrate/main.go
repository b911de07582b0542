package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/costmanagement/backend/internal/config"
	"github.com/costmanagement/backend/internal/logging"
	"github.com/costmanagement/backend/internal/repository"
	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Long: `migrate は埋め込み SQL マイグレーションを DATABASE_URL に適用する。
サブコマンドを省略した場合は up と同じ。`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		_ = godotenv.Load("../.env")
		cfg := config.Load()
		logging.Setup(cfg.LogLevel)
		if databaseURL == "" {
			databaseURL = cfg.DatabaseURL
		}
	},
	RunE: runUp,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "未適用のマイグレーションをすべて適用",
	RunE:  runUp,
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "直近のマイグレーションを steps 件 (既定 1) ロールバック",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid steps %q: must be a positive integer", args[0])
			}
			steps = n
		}
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
			slog.Info("migrations rolled back", "steps", steps)
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "現在のスキーマバージョンを表示",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "dirty 状態を解除してバージョンを強制設定",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Force(v); err != nil {
				return err
			}
			slog.Info("schema version forced", "version", v)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database url (default: $DATABASE_URL)")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	if err := repository.RunMigrations(databaseURL); err != nil {
		return err
	}
	slog.Info("migrations completed")
	return nil
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	m, err := repository.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
