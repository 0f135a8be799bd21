package service

import (
	"fmt"

	"yatube/app/config"
	"yatube/app/repositories"

	"go.uber.org/zap"
)

// loadConfig is a variable so tests can point commands at a temporary database
var loadConfig = func() (*config.Config, error) {
	return config.Load(config.DefaultOptions())
}

// openStore opens the configured database. log may be nil to keep Badger quiet.
func openStore(cfg *config.Config, log *zap.Logger) (*repositories.Store, error) {
	db, err := repositories.Open(repositories.Options{
		Path:     cfg.Database.Path,
		InMemory: cfg.Database.InMemory,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	return repositories.NewStore(db), nil
}

// withStore loads the configuration, opens the store, runs fn and closes the
// store again. Errors are printed and turned into exit code 1.
func withStore(fn func(cfg *config.Config, store *repositories.Store) int) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return 1
	}

	store, err := openStore(cfg, nil)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	return fn(cfg, store)
}

// confirm asks a yes/no question on stdin. Anything but y/Y is a no.
func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}
