package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/config"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/storage"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/users"
)

// CreateUserCommand registers a user from the terminal, prompting for the
// password with echo disabled.
type CreateUserCommand struct {
	UserName    string
	StorageRoot string
	BcryptCost  int
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.UserName, "name", "", "Display name of the new user (required)")
	fs.StringVar(&cmd.StorageRoot, "storage", config.DefaultStorageRoot, "Base directory for the document store")
	fs.IntVar(&cmd.BcryptCost, "bcrypt-cost", 12, "bcrypt cost factor for the password hash")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -name <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user in the local document store. The password is read\n")
		fmt.Fprintf(os.Stderr, "interactively and never appears in the process arguments.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.UserName == "" {
		return fmt.Errorf("required flag -name not provided")
	}
	return nil
}

func (cmd *CreateUserCommand) Run() error {
	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	paths := storage.NewPaths(cmd.StorageRoot)
	repo := users.NewRepository(paths, storage.NewKeyedMutex(), cmd.BcryptCost)

	uid, err := repo.Create(cmd.UserName, password)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s\n", cmd.UserName)
	fmt.Printf("UID: %s\n", uid)
	return nil
}

// readPassword reads a password from the terminal with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // newline after the hidden input
	return strings.TrimSpace(string(bytePassword)), nil
}
