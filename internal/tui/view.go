package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/osanchezp/casaflow/internal/calculator"
	"github.com/osanchezp/casaflow/internal/draft"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	submitStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.choosingType {
		return m.viewTypeChooser()
	}

	var b strings.Builder
	title := "Register movement"
	if m.draft.EditID != "" {
		title = "Edit movement"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s - %s", title, m.typeLabel())) + "\n")

	for i, f := range m.fields {
		b.WriteString(m.renderField(f, i == m.cursor))
	}

	switch {
	case m.submitting:
		b.WriteString("\n" + warnStyle.Render("Saving…") + "\n")
	case m.banner != "":
		b.WriteString("\n" + warnStyle.Render("⚠ "+m.banner) + "\n")
	case m.errMsg != "":
		b.WriteString("\n" + errorStyle.Render("✗ "+m.errMsg) + "\n")
	}

	help := "↑/↓ move · ←/→ change · enter edit/confirm · q discard"
	if !m.draft.TypeLocked {
		help = "t type · " + help
	}
	if m.onParticipants() {
		help = "a add · x remove · e equitable · u %/value · tab next share · " + help
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m Model) viewTypeChooser() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("What kind of movement?") + "\n")
	labels := []string{
		"Household expense  (paid for the whole household)",
		"Split expense      (divided among participants)",
		"Loan               (lend money or repay a debt)",
		"Income             (money coming in)",
	}
	for i, l := range labels {
		cursor := "  "
		style := valueStyle
		if i == m.typeCursor {
			cursor = "> "
			style = focusedStyle
		}
		b.WriteString(style.Render(cursor+l) + "\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ move · enter select · q quit"))
	return b.String()
}

func (m Model) typeLabel() string {
	if m.draft.Type == draft.TypeLoan {
		return fmt.Sprintf("LOAN (%s)", m.draft.Direction)
	}
	return m.draft.Type.String()
}

func (m Model) onParticipants() bool {
	return len(m.fields) > 0 && m.fields[m.cursor] == fieldParticipants
}

func (m Model) renderField(f field, focused bool) string {
	label, value := m.fieldContent(f)

	if f == fieldSubmit {
		btn := "  Save  "
		if m.draft.EditID != "" {
			btn = "  Update  "
		}
		s := submitStyle.Render(btn)
		if focused {
			s = focusedStyle.Render("> ") + s
		} else {
			s = "  " + s
		}
		return "\n" + s + "\n"
	}

	if f == fieldParticipants {
		return m.renderParticipants(focused)
	}

	cursor := "  "
	style := valueStyle
	if focused {
		cursor = "> "
		style = focusedStyle
	}
	if focused && m.editing {
		value = m.input + "▌"
	}
	if value == "" {
		value = requiredStyle.Render("-")
	}
	return cursor + labelStyle.Render(label) + style.Render(value) + "\n"
}

func (m Model) fieldContent(f field) (string, string) {
	cfg := m.draft.Config()
	switch f {
	case fieldDate:
		return "Date", m.draft.Date
	case fieldDescription:
		return "Description", m.draft.Description
	case fieldAmount:
		if m.draft.Amount > 0 {
			return "Amount", fmt.Sprintf("%.2f %s", m.draft.Amount, m.draft.Currency)
		}
		return "Amount", ""
	case fieldCategory:
		for _, c := range cfg.Categories {
			if c.ID == m.draft.CategoryID {
				return "Category", c.Name
			}
		}
		return "Category", ""
	case fieldPayer:
		return "Payer", m.draft.Payer.Name
	case fieldDirection:
		if m.draft.Direction == draft.DirectionRepay {
			return "Direction", "repay a debt"
		}
		return "Direction", "lend money"
	case fieldCounterparty:
		return "Counterparty", m.draft.Counterparty.Name
	case fieldMethod:
		for _, pm := range cfg.PaymentMethods {
			if pm.ID == m.draft.PaymentMethodID {
				return "Payment method", pm.Name
			}
		}
		return "Payment method", ""
	case fieldIncomeMember:
		if u, ok := cfg.MemberByID(m.draft.IncomeMemberID); ok {
			return "Member", u.Name
		}
		return "Member", ""
	case fieldIncomeSubtype:
		return "Income type", string(m.draft.IncomeSubtype)
	case fieldIncomeAccount:
		for _, a := range m.accounts {
			if a.ID == m.draft.IncomeAccountID {
				return "Account", fmt.Sprintf("%s (%s)", a.Name, a.Type)
			}
		}
		return "Account", ""
	}
	return "", ""
}

func (m Model) renderParticipants(focused bool) string {
	var b strings.Builder
	cursor := "  "
	style := valueStyle
	if focused {
		cursor = "> "
		style = focusedStyle
	}

	mode := "manual"
	if m.draft.Equitable {
		mode = "equitable"
	}
	unit := "%"
	if m.draft.Unit == calculator.UnitValue {
		unit = m.draft.Currency
	}
	b.WriteString(cursor + labelStyle.Render("Participants") +
		style.Render(fmt.Sprintf("%d · %s · shown in %s", len(m.draft.Shares), mode, unit)) + "\n")

	for i, s := range m.draft.Shares {
		marker := "   "
		if focused && i == m.shareCursor {
			marker = " ▸ "
		}
		var shown string
		if m.draft.Unit == calculator.UnitValue {
			shown = fmt.Sprintf("%10.2f", m.draft.ShareValue(i))
		} else {
			shown = fmt.Sprintf("%9.2f%%", s.Percent)
		}
		line := fmt.Sprintf("%s%-20s %s", marker, s.Party.Name, shown)
		if focused && m.editing && i == m.shareCursor {
			line = fmt.Sprintf("%s%-20s %s▌", marker, s.Party.Name, m.input)
		}
		b.WriteString(valueStyle.Render(line) + "\n")
	}

	if err := m.draft.SumCheck(); err != nil {
		b.WriteString("   " + errorStyle.Render(err.Error()) + "\n")
	}
	return b.String()
}
