package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupExt          = ".db"
	encryptedBackupExt = ".db.enc"
)

// BackupManager handles deck database backup and restore.
type BackupManager struct {
	dbPath string
	now    func() time.Time
}

// NewBackupManager creates a new backup manager for the given database path.
func NewBackupManager(dbPath string) *BackupManager {
	return &BackupManager{dbPath: dbPath, now: time.Now}
}

// BackupOptions configure one backup.
type BackupOptions struct {
	// Dir defaults to a "backups" directory next to the database.
	Dir string
	// Name defaults to a timestamp.
	Name string
	// Passphrase encrypts the backup when set.
	Passphrase string
}

// BackupInfo describes a backup file.
type BackupInfo struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	Encrypted bool      `json:"encrypted"`
	Checksum  string    `json:"checksum"`
}

// BackupDir returns the default backup directory.
func (bm *BackupManager) BackupDir() string {
	return filepath.Join(filepath.Dir(bm.dbPath), "backups")
}

// Backup copies the database with VACUUM INTO, which needs no exclusive lock,
// verifies the copy and optionally encrypts it.
func (bm *BackupManager) Backup(ctx context.Context, opts BackupOptions) (*BackupInfo, error) {
	dir := opts.Dir
	if dir == "" {
		dir = bm.BackupDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := opts.Name
	if name == "" {
		name = "decks_" + bm.now().Format("20060102_150405")
	}
	plainPath := filepath.Join(dir, name+backupExt)

	source, err := sql.Open("sqlite", bm.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	if _, err := source.ExecContext(ctx, "VACUUM INTO ?", plainPath); err != nil {
		return nil, fmt.Errorf("failed to back up database: %w", err)
	}
	if err := VerifyBackup(ctx, plainPath); err != nil {
		_ = os.Remove(plainPath)
		return nil, fmt.Errorf("backup verification failed: %w", err)
	}

	finalPath := plainPath
	if opts.Passphrase != "" {
		finalPath = filepath.Join(dir, name+encryptedBackupExt)
		err := EncryptFile(plainPath, finalPath, DefaultEncryptionConfig(opts.Passphrase))
		_ = os.Remove(plainPath)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt backup: %w", err)
		}
	}

	return describeBackup(finalPath)
}

// Restore replaces the database with a backup. The database must not be open.
// The current file is kept alongside as <db>.old.<timestamp>.
func (bm *BackupManager) Restore(ctx context.Context, backupPath, passphrase string) error {
	encrypted, err := IsEncrypted(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	tempPath := bm.dbPath + ".restore.tmp"
	if encrypted {
		if passphrase == "" {
			return fmt.Errorf("backup %s is encrypted: passphrase required", filepath.Base(backupPath))
		}
		if err := DecryptFile(backupPath, tempPath, DefaultEncryptionConfig(passphrase)); err != nil {
			return err
		}
	} else if err := copyFile(backupPath, tempPath); err != nil {
		return err
	}

	if err := VerifyBackup(ctx, tempPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("restored database verification failed: %w", err)
	}

	if _, err := os.Stat(bm.dbPath); err == nil {
		oldPath := bm.dbPath + ".old." + bm.now().Format("20060102_150405")
		if err := os.Rename(bm.dbPath, oldPath); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to move current database aside: %w", err)
		}
	}

	if err := os.Rename(tempPath, bm.dbPath); err != nil {
		return fmt.Errorf("failed to replace database with backup: %w", err)
	}
	return nil
}

// VerifyBackup checks that path is an intact SQLite database holding a decks table.
func VerifyBackup(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open backup as database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("failed to check backup integrity: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	var table string
	err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'decks'`).Scan(&table)
	if err != nil {
		return fmt.Errorf("backup has no decks table: %w", err)
	}
	return nil
}

// ListBackups returns the backups in dir, newest first. An empty dir means BackupDir.
func (bm *BackupManager) ListBackups(dir string) ([]BackupInfo, error) {
	if dir == "" {
		dir = bm.BackupDir()
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, backupExt) || strings.HasSuffix(name, encryptedBackupExt)) {
			continue
		}
		info, err := describeBackup(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

func describeBackup(path string) (*BackupInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	checksum, err := calculateChecksum(path)
	if err != nil {
		checksum = "unknown"
	}
	return &BackupInfo{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      stat.Size(),
		ModTime:   stat.ModTime(),
		Encrypted: strings.HasSuffix(path, encryptedBackupExt),
		Checksum:  checksum,
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create restore file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	return out.Close()
}

// calculateChecksum calculates the SHA-256 checksum of a file.
func calculateChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
