package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/legendarybooks/catalogue/internal/auth"
	"github.com/legendarybooks/catalogue/internal/config"
	"github.com/legendarybooks/catalogue/internal/database"
	"github.com/legendarybooks/catalogue/internal/entities"
)

type CreateAdminCommand struct {
	DatabasePath string
	Username     string
	Password     string
	Email        string
	FirstName    string
	LastName     string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Username, "username", "", "Username for the administrator account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the administrator account (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address for the administrator account (required)")
	fs.StringVar(&cmd.FirstName, "first-name", "", "First name")
	fs.StringVar(&cmd.LastName, "last-name", "", "Last name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account so the catalogue API can be used.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -username admin -password secret123 -email admin@example.com\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Password == "" || cmd.Email == "" {
		fs.Usage()
		return fmt.Errorf("username, password and email are required")
	}

	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user := &entities.User{
		Username:    cmd.Username,
		Email:       cmd.Email,
		FirstName:   cmd.FirstName,
		LastName:    cmd.LastName,
		Permissions: entities.PermissionsAdmin,
	}

	if err := service.CreateUser(user, cmd.Password); err != nil {
		return fmt.Errorf("failed to create administrator: %w", err)
	}

	fmt.Printf("Administrator account '%s' created (user ID %d)\n", user.Username, user.ID)
	return nil
}
