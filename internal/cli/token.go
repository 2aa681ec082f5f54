package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/osanchezp/casaflow/internal/auth"
	"github.com/osanchezp/casaflow/internal/config"
	"github.com/osanchezp/casaflow/internal/models"
	"github.com/osanchezp/casaflow/internal/storage/sqlite"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token MEMBER",
	Short: "Issue a bearer token for a household member",
	Long: `Issue a signed bearer token for the given member (by ID or name),
signed with the server's token secret. Put the token and the member ID
in the [client] section of the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	form, err := store.FormConfig(cmd.Context())
	if err != nil {
		return err
	}

	var member models.Member
	found := false
	for _, u := range form.Users {
		if u.ID == args[0] || strings.EqualFold(u.Name, args[0]) {
			member = u
			found = true
			break
		}
	}
	if !found {
		names := make([]string, len(form.Users))
		for i, u := range form.Users {
			names[i] = fmt.Sprintf("%s (%s)", u.Name, u.ID)
		}
		return fmt.Errorf("member %q not found; known members: %s", args[0], strings.Join(names, ", "))
	}

	tokens := auth.NewTokenManager(cfg.Server.TokenSecret, 30*24*time.Hour)
	token, err := tokens.Generate(member)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Member:  %s (%s)\n", member.Name, member.ID)
	fmt.Fprintf(os.Stdout, "Token:   %s\n\n", token)
	fmt.Fprintf(os.Stdout, "Add to %s:\n\n", config.Path())
	fmt.Fprintf(os.Stdout, "  [client]\n  member_id = %q\n  token = %q\n", member.ID, token)
	return nil
}
