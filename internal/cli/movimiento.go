package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/osanchezp/casaflow/internal/api"
	"github.com/osanchezp/casaflow/internal/config"
	"github.com/osanchezp/casaflow/internal/draft"
	"github.com/osanchezp/casaflow/internal/models"
	"github.com/osanchezp/casaflow/internal/tui"
	"github.com/osanchezp/casaflow/pkg/logging"
)

func init() {
	rootCmd.AddCommand(movimientoCmd)
	movimientoCmd.Flags().String("edit", "", "Edit an existing movement by ID")
	movimientoCmd.Flags().String("tipo", "", "Start with a movement type (HOUSEHOLD, SPLIT, LOAN, INGRESO)")

	rootCmd.AddCommand(movimientosCmd)
}

var movimientoCmd = &cobra.Command{
	Use:     "movimiento",
	Aliases: []string{"mov"},
	Short:   "Open the movement entry form",
	Long: `Open the interactive form to register a money movement, or edit an
existing one with --edit. The form fetches the household configuration
(members, contacts, categories, payment methods) from the server before
it opens, so the server must be reachable.`,
	RunE: runMovimiento,
}

func runMovimiento(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Client.Token == "" {
		return fmt.Errorf("no client token configured; run 'casaflow token MEMBER' and add it to %s", config.Path())
	}

	// The TUI owns the terminal, so logs go to a file.
	closeLog, err := logging.SetupFile(cfg.Client.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()

	client := api.NewClient(cfg.Client.ServerURL, cfg.Client.Token)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	form, err := client.FormConfig(ctx)
	if err != nil {
		return loadError(err)
	}
	accounts, err := client.Accounts(ctx)
	if err != nil {
		return loadError(err)
	}

	current, ok := currentMember(form, cfg.Client.MemberID)
	if !ok {
		return fmt.Errorf("member_id %q is not a household member; check the [client] section of %s", cfg.Client.MemberID, config.Path())
	}

	var d *draft.Draft
	if editID, _ := cmd.Flags().GetString("edit"); editID != "" {
		m, err := client.Movement(ctx, editID)
		if err != nil {
			return loadError(err)
		}
		d, err = draft.FromMovement(m, form, current)
		if err != nil {
			return err
		}
	} else {
		d = draft.New(form, current, cfg.Client.Currency)
		if tipo, _ := cmd.Flags().GetString("tipo"); tipo != "" {
			t, err := draft.ParseFormType(tipo)
			if err != nil {
				return err
			}
			if err := d.SetType(t); err != nil {
				return err
			}
		}
	}

	p := tea.NewProgram(tui.New(client, d, accounts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Status() != "" {
		fmt.Fprintln(os.Stdout, m.Status())
	}
	return nil
}

var movimientosCmd = &cobra.Command{
	Use:   "movimientos",
	Short: "List recent movements",
	RunE:  runMovimientos,
}

func runMovimientos(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.Client.ServerURL, cfg.Client.Token)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	movements, err := client.Movements(ctx)
	if err != nil {
		return loadError(err)
	}
	if len(movements) == 0 {
		fmt.Fprintln(os.Stdout, "No movements yet.")
		return nil
	}
	for _, m := range movements {
		fmt.Fprintf(os.Stdout, "%s  %-12s  %10.2f  %-30s  %s\n",
			m.Date, m.Type, m.Amount, m.Description, m.ID)
	}
	return nil
}

func currentMember(form *models.FormConfig, id string) (models.Member, bool) {
	if id == "" && len(form.Users) > 0 {
		// Single-user households do not need explicit configuration.
		if len(form.Users) == 1 {
			return form.Users[0], true
		}
		return models.Member{}, false
	}
	return form.MemberByID(id)
}

func loadError(err error) error {
	if errors.Is(err, api.ErrCannotConnect) {
		return fmt.Errorf("%w\nIs the server running? Start it with 'casaflow serve'", err)
	}
	return err
}
