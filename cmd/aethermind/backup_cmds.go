package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/config"
	"github.com/aethermind/aethermind/internal/storage"
)

func backupManager() (*storage.BackupManager, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	return storage.NewBackupManager(dbPath), nil
}

// backupPassphrase prefers the flag over the environment.
func backupPassphrase(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("passphrase"); p != "" {
		return p
	}
	return os.Getenv(config.EnvBackupPassphrase)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the deck database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		bm, err := backupManager()
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		name, _ := cmd.Flags().GetString("name")

		info, err := bm.Backup(ctx, storage.BackupOptions{
			Dir:        dir,
			Name:       name,
			Passphrase: backupPassphrase(cmd),
		})
		if err != nil {
			return err
		}
		logger.Info("Backup created", zap.String("path", info.Path), zap.Bool("encrypted", info.Encrypted))

		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", info.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "SHA-256: %s\n", dimColor.Sprint(info.Checksum))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Replace the deck database with a backup",
	Long: `Replace the deck database with a backup.

The current database is kept next to it with an .old.<timestamp> suffix.
Stop any running "aethermind serve" first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		bm, err := backupManager()
		if err != nil {
			return err
		}
		if err := bm.Restore(ctx, args[0], backupPassphrase(cmd)); err != nil {
			return err
		}
		logger.Info("Database restored", zap.String("backup", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
		return nil
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List deck database backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bm, err := backupManager()
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		backups, err := bm.ListBackups(dir)
		if err != nil {
			return err
		}
		printBackups(cmd.OutOrStdout(), backups)
		return nil
	},
}

func init() {
	backupCmd.Flags().String("dir", "", "backup directory (default: backups/ next to the database)")
	backupCmd.Flags().String("name", "", "backup file name without extension (default: timestamp)")
	backupCmd.Flags().String("passphrase", "", "encrypt the backup (or set "+config.EnvBackupPassphrase+")")
	restoreCmd.Flags().String("passphrase", "", "passphrase for an encrypted backup (or set "+config.EnvBackupPassphrase+")")
	backupsCmd.Flags().String("dir", "", "backup directory (default: backups/ next to the database)")
}
