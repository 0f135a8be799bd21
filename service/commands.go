package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yatube/app/config"
	"yatube/app/repositories"
	"yatube/app/services"
)

// HandleCommand runs a yatube subcommand and returns its exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return RunAppServer(args[1:])
	case "clean":
		return clean()
	case "init":
		return initDb()
	case "backup":
		file := ""
		if len(args) > 1 {
			file = args[1]
		}
		return backup(file)
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		return restore(args[1])
	case "createuser":
		if len(args) < 3 {
			fmt.Println("Error: usage: createuser <username> <password>")
			return 1
		}
		return createUser(args[1], args[2])
	case "creategroup":
		if len(args) < 3 {
			fmt.Println("Error: usage: creategroup <slug> <title> [description]")
			return 1
		}
		return createGroup(args[1], args[2], strings.Join(args[3:], " "))
	case "deletegroup":
		if len(args) < 2 {
			fmt.Println("Error: group slug required for deletegroup")
			return 1
		}
		return deleteGroup(args[1])
	case "deleteuser":
		if len(args) < 2 {
			fmt.Println("Error: username required for deleteuser")
			return 1
		}
		return deleteUser(args[1])
	case "help":
		printHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printHelp()
		return 1
	}
}

// printHelp prints help for the yatube subcommands.
func printHelp() {
	helpText := `Usage: yatube <command> [arguments]

Commands:
  serve [--addr <addr>]                       Run the blog server
  init                                        Initialize a new empty database
  clean                                       Delete the database
  backup [file]                               Create a backup of the database
  restore <file>                              Restore database from backup
  createuser <username> <password>            Create an author account
  creategroup <slug> <title> [description]    Create a group
  deletegroup <slug>                          Delete a group, keeping its posts
  deleteuser <username>                       Delete a user and all their posts
  help                                        Display this help message
  version                                     Show version information

Configuration is read from yatube.yaml, .env and YATUBE_* variables.
`
	fmt.Println(helpText)
}

// clean removes the database.
func clean() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return 1
	}
	dbPath := cfg.Database.Path

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Println("Database cleaned successfully")
	return 0
}

// initDb initializes a new empty database.
func initDb() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return 1
	}
	dbPath := cfg.Database.Path

	if _, err := os.Stat(dbPath); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 1
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := openStore(cfg, nil)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer store.Close()

	fmt.Println("Database initialized successfully")
	return 0
}

// backup writes a full backup of the database to file, or to a timestamped
// file next to the database when file is empty.
func backup(file string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return 1
	}
	dbPath := cfg.Database.Path

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return 1
	}

	if file == "" {
		backupDir := filepath.Join(filepath.Dir(dbPath), "backups")
		if err := os.MkdirAll(backupDir, 0755); err != nil {
			fmt.Printf("Failed to create backup directory: %v\n", err)
			return 1
		}
		file = filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}

	store, err := openStore(cfg, nil)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	if err := writeBackup(store.DB, file); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Printf("Database backed up successfully to %s\n", file)
	return 0
}

// backuper is the part of *badger.DB used by backup.
type backuper interface {
	Backup(w io.Writer, since uint64) (uint64, error)
}

// writeBackup streams a full backup of db into file. A failed backup
// leaves no file behind.
func writeBackup(db backuper, file string) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close backup file: %w", cerr)
		}
		if err != nil {
			os.Remove(file)
		}
	}()

	if _, err = db.Backup(f, 0); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// restore restores the database from a backup.
func restore(backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return 1
	}
	dbPath := cfg.Database.Path

	if _, err := os.Stat(dbPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := openStore(cfg, nil)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.DB.Load(f, 4)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}

// createUser adds an author account.
func createUser(username, password string) int {
	return withStore(func(cfg *config.Config, store *repositories.Store) int {
		auth := services.NewAuthService(store.Users, store.Sessions, cfg.Session.TTL)
		user, err := auth.CreateUser(username, password)
		if errors.Is(err, repositories.ErrDuplicate) {
			fmt.Printf("User %q already exists\n", username)
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to create user: %v\n", err)
			return 1
		}

		fmt.Printf("User %s created with id %d\n", user.Username, user.ID)
		return 0
	})
}

// createGroup adds a group posts can be filed under.
func createGroup(slug, title, description string) int {
	return withStore(func(_ *config.Config, store *repositories.Store) int {
		group, err := services.NewGroupService(store.Groups).CreateGroup(slug, title, description)
		if errors.Is(err, repositories.ErrDuplicate) {
			fmt.Printf("Group %q already exists\n", slug)
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to create group: %v\n", err)
			return 1
		}

		fmt.Printf("Group %s created with id %d\n", group.Slug, group.ID)
		return 0
	})
}

// deleteGroup removes a group. Its posts are kept without a group.
func deleteGroup(slug string) int {
	return withStore(func(_ *config.Config, store *repositories.Store) int {
		err := services.NewGroupService(store.Groups).DeleteGroup(slug)
		if errors.Is(err, repositories.ErrNotFound) {
			fmt.Printf("Group %q does not exist\n", slug)
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to delete group: %v\n", err)
			return 1
		}

		fmt.Printf("Group %s deleted\n", slug)
		return 0
	})
}

// deleteUser removes a user with all of their posts and sessions.
func deleteUser(username string) int {
	return withStore(func(cfg *config.Config, store *repositories.Store) int {
		auth := services.NewAuthService(store.Users, store.Sessions, cfg.Session.TTL)
		err := auth.DeleteUser(username)
		if errors.Is(err, repositories.ErrNotFound) {
			fmt.Printf("User %q does not exist\n", username)
			return 1
		}
		if err != nil {
			fmt.Printf("Failed to delete user: %v\n", err)
			return 1
		}

		fmt.Printf("User %s and their posts deleted\n", username)
		return 0
	})
}
