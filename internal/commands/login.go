package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prohance/tracker/internal/config"
	"github.com/prohance/tracker/internal/db"
	"github.com/prohance/tracker/internal/erp"
	"github.com/prohance/tracker/internal/models"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to the ERP with a one-time code",
	Long: `Log in to the ERP. An OTP is sent to the given email; enter it when
prompted. The tokens are stored locally so the agent can run unattended.

Examples:
  tracker login user@corp.com
  tracker login user@corp.com --password  # password login instead of OTP`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, cfg config.Config) {
		email := strings.TrimSpace(args[0])
		client := erp.NewClient(cfg.BaseURL, cfg.ERP.RequestTimeout)
		ctx := context.Background()

		usePassword, _ := cmd.Flags().GetBool("password")

		var result *erp.LoginResult
		var err error
		if usePassword {
			password := prompt("Password: ")
			result, err = client.CredentialLogin(ctx, email, password)
		} else {
			if err := client.RequestOTP(ctx, email); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("📧 One-time code sent to %s\n", email)
			code := prompt("Enter code: ")
			result, err = client.VerifyOTP(ctx, email, code)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		shiftID, err := client.AutoSelectShift(ctx, result.ClientID)
		if err != nil {
			fmt.Printf("⚠️  Logged in, but shift lookup failed: %v\n", err)
		}

		if err := db.SaveCredential(models.Credential{
			Environment:  cfg.Environment,
			Email:        email,
			UserID:       result.UserID,
			ClientID:     result.ClientID,
			ShiftID:      shiftID,
			DeviceID:     client.DeviceID(),
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		}); err != nil {
			fmt.Printf("Error: failed to store credentials: %v\n", err)
			return
		}

		fmt.Printf("✅ Logged in to %s as %s\n", cfg.Environment, email)
		if shiftID != "" {
			fmt.Printf("🗓️  Shift selected: %s\n", shiftID)
		}
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored ERP credentials",
	Run: withApp(func(cmd *cobra.Command, args []string, cfg config.Config) {
		if err := db.DeleteCredential(cfg.Environment); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("👋 Logged out of %s\n", cfg.Environment)
	}),
}

// loadClient builds an authenticated ERP client from the stored credential
func loadClient(cfg config.Config) (*erp.Client, *models.Credential, error) {
	cred, err := db.GetCredential(cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	client := erp.NewClient(cfg.BaseURL, cfg.ERP.RequestTimeout)
	client.SetTokens(cred.AccessToken, cred.RefreshToken)
	client.SetIdentity(cred.UserID, cred.ClientID, cred.ShiftID)
	client.SetDeviceID(cred.DeviceID)
	return client, cred, nil
}

// persistTokens writes back refreshed tokens so the next run stays logged in
func persistTokens(client *erp.Client, cred *models.Credential) {
	access, refresh := client.Tokens()
	if access == cred.AccessToken && refresh == cred.RefreshToken {
		return
	}
	cred.AccessToken = access
	cred.RefreshToken = refresh
	if err := db.SaveCredential(*cred); err != nil {
		fmt.Printf("⚠️  Failed to store refreshed tokens: %v\n", err)
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func init() {
	loginCmd.Flags().Bool("password", false, "Log in with a password instead of an OTP")
}
