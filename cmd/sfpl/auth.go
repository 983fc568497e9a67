package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"sfpl/pkg/auth"
	"sfpl/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage saved library cards",
	Long: `Manage saved library card credentials.

Cards are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - SFPL_BARCODE and SFPL_PIN environment variables (read only)`,
}

var loginCmd = &cobra.Command{
	Use:   "login [barcode]",
	Short: "Verify and save a library card",
	Long: `Log in with a library card barcode and PIN and save the card when the
catalog accepts it. The PIN is read without echo.`,
	Example: `  # Interactive login
  sfpl auth login

  # Login with barcode
  sfpl auth login 21223012345678`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout <barcode>",
	Short: "Remove a saved card",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cards",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	var cardBarcode string
	if len(args) > 0 {
		cardBarcode = strings.TrimSpace(args[0])
	} else {
		auth.WriteCardGuide(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), "Barcode: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read barcode: %w", err)
		}
		cardBarcode = strings.TrimSpace(input)
	}
	if cardBarcode == "" {
		return fmt.Errorf("barcode is required")
	}

	fmt.Fprint(cmd.OutOrStdout(), "PIN: ")
	pin, err := readPIN(reader)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to read PIN: %w", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	client, err := newClient()
	if err != nil {
		return err
	}
	account, err := client.Login(ctx, cardBarcode, pin)
	if err != nil {
		return err
	}
	_ = account.Logout(ctx)

	card := &auth.Account{Barcode: cardBarcode, PIN: pin, Name: account.Name, UserID: account.ID}
	if err := manager.Store(card); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Saved card %s for %s", auth.MaskBarcode(cardBarcode), account.Name))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	if err := manager.Delete(args[0]); err != nil {
		return err
	}
	ui.PrintSuccess("Removed card " + auth.MaskBarcode(args[0]))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	accounts, err := manager.List()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		ui.PrintWarning("No saved cards. Run 'sfpl auth login' to add one.")
		return nil
	}
	ui.AccountTable(cmd.OutOrStdout(), accounts)
	return nil
}

// readPIN reads without echo on a terminal and falls back to a plain line
// when stdin is piped
func readPIN(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pin, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(pin)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
