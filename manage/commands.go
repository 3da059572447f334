package manage

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"blogicum/app/config"
	"blogicum/app/log"
	"blogicum/app/models"
	"blogicum/app/repositories"
	"blogicum/app/routes"
	"blogicum/app/services"

	"github.com/sirupsen/logrus"
)

// HandleCommand runs one operator command and returns the process exit code.
func HandleCommand(cfg *config.Config, args []string) int {
	if len(args) < 1 {
		PrintHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		return serve(cfg, args[1:])
	case "clean":
		return clean(cfg)
	case "init":
		return initDb(cfg)
	case "backup":
		return backup(cfg)
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		return restore(cfg, args[1])
	case "category":
		return categoryCommand(cfg, args[1:])
	case "location":
		return locationCommand(cfg, args[1:])
	case "help":
		PrintHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		PrintHelp()
		return 1
	}
}

// PrintHelp prints the command overview.
func PrintHelp() {
	helpText := `Usage: blogicum <command> [options]

Commands:
  help                                         Display this help message
  version                                      Show version information
  serve [--addr <addr>]                        Run the blog web application
  init                                         Initialize a new empty database
  clean                                        Remove the blog database
  backup                                       Create a backup of the database
  restore <file>                               Restore database from backup
  category add <slug> <title> [--description <text>] [--published]
                                               Create a category
  category list                                List categories
  category publish|hide <slug>                 Show or hide a category and its posts
  location add <name> [--published]            Create a location
  location list                                List locations
`
	fmt.Println(helpText)
}

func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

func openRepository(cfg *config.Config) (*repositories.Repository, bool) {
	repo, err := repositories.NewRepository(cfg.DBPath)
	if err != nil {
		log.Log.WithError(err).Error("failed to open database")
		fmt.Printf("Failed to open database: %v\n", err)
		return nil, false
	}
	return repo, true
}

// serve runs the web application until SIGINT or SIGTERM.
func serve(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	addr := fs.String("addr", cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if err := cfg.Validate(); err != nil {
		log.Log.WithError(err).Error("refusing to start")
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	repo, ok := openRepository(cfg)
	if !ok {
		return 1
	}
	defer repo.Close()

	deps, err := routes.NewDependencies(cfg, repo)
	if err != nil {
		log.Log.WithError(err).Error("failed to set up application")
		return 1
	}
	router := routes.SetupRoutes(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Log.WithFields(logrus.Fields{
		"db":    cfg.DBPath,
		"media": cfg.MediaDir,
	}).Info("starting blogicum")
	if err := routes.StartServer(ctx, *addr, router); err != nil {
		log.Log.WithError(err).Error("server error")
		return 1
	}
	return 0
}

// clean removes the database directory after confirmation.
func clean(cfg *config.Config) int {
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return 0
	}

	if err := os.RemoveAll(cfg.DBPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Println("Database cleaned successfully")
	return 0
}

// initDb creates an empty database.
func initDb(cfg *config.Config) int {
	if _, err := os.Stat(cfg.DBPath); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}

	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	repo, ok := openRepository(cfg)
	if !ok {
		return 1
	}
	defer repo.Close()

	fmt.Println("Database initialized successfully")
	return 0
}

// backup writes a full badger backup into the backup directory.
func backup(cfg *config.Config) int {
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return 1
	}

	if err := os.MkdirAll(cfg.BackupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	repo, ok := openRepository(cfg)
	if !ok {
		return 1
	}
	defer repo.Close()

	backupFile := filepath.Join(cfg.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := repo.DB().Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}

	log.Log.WithField("file", backupFile).Info("database backed up")
	fmt.Printf("Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore replaces the database with the content of backupFile.
func restore(cfg *config.Config, backupFile string) int {
	f, err := os.Open(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(cfg.DBPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(cfg.DBPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	repo, ok := openRepository(cfg)
	if !ok {
		return 1
	}
	defer repo.Close()

	if err := load(repo, f); err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	log.Log.WithField("file", backupFile).Info("database restored")
	fmt.Println("Database restored successfully")
	return 0
}

// load feeds a backup into the database. Corrupt input can make badger panic.
func load(repo *repositories.Repository, r io.Reader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic occurred during restore: %v", rec)
		}
	}()
	return repo.DB().Load(r, 4)
}

func withCategoryService(cfg *config.Config, fn func(*services.CategoryService) int) int {
	repo, ok := openRepository(cfg)
	if !ok {
		return 1
	}
	defer repo.Close()
	return fn(services.NewCategoryService(services.NewRepositories(repo)))
}

func categoryCommand(cfg *config.Config, args []string) int {
	if len(args) < 1 {
		fmt.Println("Error: category command requires one of add, list, publish, hide")
		return 1
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			fmt.Println("Error: usage: category add <slug> <title> [--description <text>] [--published]")
			return 1
		}
		fs := flag.NewFlagSet("category add", flag.ContinueOnError)
		fs.SetOutput(os.Stdout)
		description := fs.String("description", "", "category description")
		published := fs.Bool("published", false, "publish the category immediately")
		if err := fs.Parse(args[3:]); err != nil {
			return 1
		}
		category := &models.Category{
			Slug:        args[1],
			Title:       args[2],
			Description: *description,
			IsPublished: *published,
		}
		return withCategoryService(cfg, func(s *services.CategoryService) int {
			if err := s.CreateCategory(category); err != nil {
				fmt.Printf("Failed to create category: %v\n", err)
				return 1
			}
			fmt.Printf("Category %q created (id %d)\n", category.Slug, category.ID)
			return 0
		})
	case "list":
		return withCategoryService(cfg, func(s *services.CategoryService) int {
			categories, err := s.ListCategories()
			if err != nil {
				fmt.Printf("Failed to list categories: %v\n", err)
				return 1
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tTITLE\tPUBLISHED")
			for _, c := range categories {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", c.ID, c.Slug, c.Title, c.IsPublished)
			}
			tw.Flush()
			return 0
		})
	case "publish", "hide":
		if len(args) < 2 {
			fmt.Printf("Error: usage: category %s <slug>\n", args[0])
			return 1
		}
		published := args[0] == "publish"
		return withCategoryService(cfg, func(s *services.CategoryService) int {
			category, err := s.SetCategoryPublished(args[1], published)
			if err != nil {
				fmt.Printf("Failed to update category: %v\n", err)
				return 1
			}
			state := "hidden"
			if category.IsPublished {
				state = "published"
			}
			fmt.Printf("Category %q is now %s\n", category.Slug, state)
			return 0
		})
	default:
		fmt.Printf("Unknown category command: %s\n", args[0])
		return 1
	}
}

func locationCommand(cfg *config.Config, args []string) int {
	if len(args) < 1 {
		fmt.Println("Error: location command requires one of add, list")
		return 1
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			fmt.Println("Error: usage: location add <name> [--published]")
			return 1
		}
		fs := flag.NewFlagSet("location add", flag.ContinueOnError)
		fs.SetOutput(os.Stdout)
		published := fs.Bool("published", false, "publish the location immediately")
		if err := fs.Parse(args[2:]); err != nil {
			return 1
		}
		location := &models.Location{Name: args[1], IsPublished: *published}
		return withCategoryService(cfg, func(s *services.CategoryService) int {
			if err := s.CreateLocation(location); err != nil {
				fmt.Printf("Failed to create location: %v\n", err)
				return 1
			}
			fmt.Printf("Location %q created (id %d)\n", location.Name, location.ID)
			return 0
		})
	case "list":
		return withCategoryService(cfg, func(s *services.CategoryService) int {
			locations, err := s.ListLocations()
			if err != nil {
				fmt.Printf("Failed to list locations: %v\n", err)
				return 1
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPUBLISHED")
			for _, l := range locations {
				fmt.Fprintf(tw, "%d\t%s\t%t\n", l.ID, l.Name, l.IsPublished)
			}
			tw.Flush()
			return 0
		})
	default:
		fmt.Printf("Unknown location command: %s\n", args[0])
		return 1
	}
}
