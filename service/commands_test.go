package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yatube/app/config"
	"yatube/app/models"
	"yatube/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	// Run the function
	f()

	// Restore stdout and close pipe
	w.Close()
	os.Stdout = oldStdout
	return <-done
}

func mockStdin(input string, f func()) {
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r

	// Write input in a goroutine to avoid blocking
	go func() {
		w.Write([]byte(input))
		w.Close()
	}()

	// Run the function
	f()

	// Restore stdin
	os.Stdin = oldStdin
}

// setupTestDB points every command at a database inside a temp dir and
// returns the database path.
func setupTestDB(t *testing.T) string {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "badger")

	oldLoad := loadConfig
	loadConfig = func() (*config.Config, error) {
		return &config.Config{
			Database: config.DatabaseConfig{Path: dbPath},
			Session:  config.SessionConfig{CookieName: "sessionid", TTL: time.Hour},
			Log:      config.LogConfig{Level: "error"},
		}, nil
	}
	t.Cleanup(func() { loadConfig = oldLoad })
	return dbPath
}

// inspect opens the test database directly.
func inspect(t *testing.T, dbPath string, fn func(store *repositories.Store)) {
	db, err := repositories.Open(repositories.Options{Path: dbPath})
	require.NoError(t, err)
	defer db.Close()
	fn(repositories.NewStore(db))
}

func TestHandleCommand(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "no arguments",
			args:           []string{},
			expectedOutput: "Usage: yatube <command>",
			expectedExit:   1,
		},
		{
			name:           "help command",
			args:           []string{"help"},
			expectedOutput: "Usage: yatube <command>",
			expectedExit:   0,
		},
		{
			name:           "unknown command",
			args:           []string{"unknown"},
			expectedOutput: "Unknown command: unknown",
			expectedExit:   1,
		},
		{
			name:           "restore without file",
			args:           []string{"restore"},
			expectedOutput: "Error: backup file path required for restore",
			expectedExit:   1,
		},
		{
			name:           "createuser without password",
			args:           []string{"createuser", "leo"},
			expectedOutput: "createuser <username> <password>",
			expectedExit:   1,
		},
		{
			name:           "creategroup without title",
			args:           []string{"creategroup", "cats"},
			expectedOutput: "creategroup <slug> <title>",
			expectedExit:   1,
		},
		{
			name:           "deletegroup without slug",
			args:           []string{"deletegroup"},
			expectedOutput: "Error: group slug required",
			expectedExit:   1,
		},
		{
			name:           "deleteuser without username",
			args:           []string{"deleteuser"},
			expectedOutput: "Error: username required",
			expectedExit:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitCode int
			output := captureOutput(func() {
				exitCode = HandleCommand(tt.args)
			})

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestInitDb(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("initialize new database", func(t *testing.T) {
		output := captureOutput(func() {
			initDb()
		})

		assert.Contains(t, output, "Database initialized successfully")
		assert.DirExists(t, dbPath)
	})

	t.Run("initialize existing database", func(t *testing.T) {
		output := captureOutput(func() {
			assert.Equal(t, 1, initDb())
		})

		assert.Contains(t, output, "Database already exists")
	})
}

func TestClean(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("clean non-existent database", func(t *testing.T) {
		output := captureOutput(func() {
			clean()
		})

		assert.Contains(t, output, "Database is already clean")
	})

	t.Run("clean existing database - cancelled", func(t *testing.T) {
		captureOutput(func() { initDb() })
		assert.DirExists(t, dbPath)

		var output string
		// Mock user input "n" for confirmation
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				clean()
			})
		})

		assert.Contains(t, output, "Operation cancelled")
		assert.DirExists(t, dbPath)
	})

	t.Run("clean existing database - confirmed", func(t *testing.T) {
		var output string
		// Mock user input "y" for confirmation
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				clean()
			})
		})

		assert.Contains(t, output, "Database cleaned successfully")
		assert.NoDirExists(t, dbPath)
	})
}

func TestAdminCommands(t *testing.T) {
	dbPath := setupTestDB(t)

	run := func(args ...string) (int, string) {
		var code int
		output := captureOutput(func() {
			code = HandleCommand(args)
		})
		return code, output
	}

	code, output := run("createuser", "leo", "war-and-peace")
	require.Equal(t, 0, code, output)
	assert.Contains(t, output, "User leo created")

	code, output = run("createuser", "leo", "again")
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "already exists")

	code, output = run("creategroup", "cats", "Cats", "All", "about", "cats")
	require.Equal(t, 0, code, output)

	code, _ = run("creategroup", "bad slug", "Bad")
	assert.Equal(t, 1, code)

	var groupID int
	inspect(t, dbPath, func(store *repositories.Store) {
		group, err := store.Groups.GetBySlug("cats")
		require.NoError(t, err)
		assert.Equal(t, "All about cats", group.Description)
		groupID = group.ID

		user, err := store.Users.GetByUsername("leo")
		require.NoError(t, err)
		assert.True(t, user.CheckPassword("war-and-peace"))

		require.NoError(t, store.Posts.Create(&models.Post{Text: "grouped", AuthorID: user.ID, GroupID: &groupID}))
	})

	code, output = run("deletegroup", "cats")
	require.Equal(t, 0, code, output)
	code, _ = run("deletegroup", "cats")
	assert.Equal(t, 1, code)

	inspect(t, dbPath, func(store *repositories.Store) {
		posts, err := store.Posts.List(repositories.PostFilter{})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Nil(t, posts[0].GroupID)
	})

	code, output = run("deleteuser", "leo")
	require.Equal(t, 0, code, output)
	code, _ = run("deleteuser", "leo")
	assert.Equal(t, 1, code)

	inspect(t, dbPath, func(store *repositories.Store) {
		count, err := store.Posts.Count(repositories.PostFilter{})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestBackupAndRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	backupFile := filepath.Join(t.TempDir(), "yatube.bak")

	t.Run("backup non-existent database", func(t *testing.T) {
		output := captureOutput(func() {
			assert.Equal(t, 1, backup(backupFile))
		})

		assert.Contains(t, output, "No database exists to backup")
	})

	t.Run("restore non-existent backup", func(t *testing.T) {
		output := captureOutput(func() {
			restore("nonexistent.db")
		})

		assert.Contains(t, output, "Backup file does not exist")
	})

	captureOutput(func() {
		require.Equal(t, 0, createUser("leo", "war-and-peace"))
	})

	t.Run("backup existing database", func(t *testing.T) {
		output := captureOutput(func() {
			assert.Equal(t, 0, backup(backupFile))
		})

		assert.Contains(t, output, "Database backed up successfully")
		assert.FileExists(t, backupFile)
	})

	t.Run("backup to default location", func(t *testing.T) {
		output := captureOutput(func() {
			assert.Equal(t, 0, backup(""))
		})

		assert.Contains(t, output, filepath.Join(filepath.Dir(dbPath), "backups"))
	})

	t.Run("restore with existing database - cancelled", func(t *testing.T) {
		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				restore(backupFile)
			})
		})

		assert.Contains(t, output, "Operation cancelled")
	})

	t.Run("restore with existing database - confirmed", func(t *testing.T) {
		captureOutput(func() {
			require.Equal(t, 0, deleteUser("leo"))
		})

		var output string
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				restore(backupFile)
			})
		})

		assert.Contains(t, output, "Database restored successfully")
		inspect(t, dbPath, func(store *repositories.Store) {
			user, err := store.Users.GetByUsername("leo")
			require.NoError(t, err)
			assert.True(t, user.CheckPassword("war-and-peace"))
		})
	})

	t.Run("restore empty backup", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.bak")
		require.NoError(t, os.WriteFile(empty, nil, 0644))

		output := captureOutput(func() {
			assert.Equal(t, 1, restore(empty))
		})
		assert.Contains(t, output, "Backup file is empty")
	})
}

type failingBackup struct{}

func (failingBackup) Backup(w io.Writer, _ uint64) (uint64, error) {
	if _, err := w.Write([]byte("partial")); err != nil {
		return 0, err
	}
	return 0, errors.New("stream interrupted")
}

func TestWriteBackupFailureRemovesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "broken.bak")

	err := writeBackup(failingBackup{}, file)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream interrupted")
	assert.NoFileExists(t, file)
}

func TestWriteBackupMissingDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing", "yatube.bak")

	err := writeBackup(failingBackup{}, file)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create backup file")
	assert.NoFileExists(t, file)
}
