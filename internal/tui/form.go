// Package tui implements the interactive movement entry form.
//
// The bubbletea model owns a draft.Draft and translates key events into
// state transitions on it; every frame is re-rendered from the draft, so
// there is no form state outside this model. While a submit is in flight
// all editing keys are ignored, so at most one request is ever active.
package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/osanchezp/casaflow/internal/api"
	"github.com/osanchezp/casaflow/internal/calculator"
	"github.com/osanchezp/casaflow/internal/draft"
	"github.com/osanchezp/casaflow/internal/models"
)

// field identifies one focusable row of the form.
type field int

const (
	fieldDate field = iota
	fieldDescription
	fieldAmount
	fieldCategory
	fieldPayer
	fieldDirection
	fieldCounterparty
	fieldMethod
	fieldParticipants
	fieldIncomeMember
	fieldIncomeSubtype
	fieldIncomeAccount
	fieldSubmit
)

// resetDelay is how long the degraded-write banner stays up before the
// form resets.
const resetDelay = 3 * time.Second

type (
	submittedMsg struct{}
	degradedMsg  struct{ warning string }
	failedMsg    struct{ err error }
	resetMsg     struct{}
)

// Model is the bubbletea model for the movement form.
type Model struct {
	client   *api.Client
	draft    *draft.Draft
	accounts []models.Account

	choosingType bool
	typeCursor   int

	fields      []field
	cursor      int
	editing     bool
	input       string
	shareCursor int

	submitting bool
	errMsg     string
	banner     string
	status     string
	quitting   bool
}

// New builds the form model. A draft prefilled from an existing movement
// arrives with its type locked; an empty draft starts at the type chooser
// unless a launch type was preset.
func New(client *api.Client, d *draft.Draft, accounts []models.Account) Model {
	m := Model{
		client:       client,
		draft:        d,
		accounts:     accounts,
		choosingType: d.Type == draft.TypeNone,
	}
	m.rebuildFields()
	return m
}

// Status returns the final message to print after the program exits.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd { return nil }

// rebuildFields recomputes the focusable rows from the draft's visibility
// rules. Called after every type switch.
func (m *Model) rebuildFields() {
	f := []field{fieldDate, fieldDescription, fieldAmount}
	if m.draft.FieldRule(draft.GroupCategory).Visible {
		f = append(f, fieldCategory)
	}
	if m.draft.FieldRule(draft.GroupPayer).Visible {
		f = append(f, fieldPayer)
	}
	if m.draft.FieldRule(draft.GroupCounterparty).Visible {
		f = append(f, fieldDirection, fieldCounterparty)
	}
	if m.draft.FieldRule(draft.GroupPaymentMethod).Visible {
		f = append(f, fieldMethod)
	}
	if m.draft.FieldRule(draft.GroupParticipants).Visible {
		f = append(f, fieldParticipants)
	}
	if m.draft.FieldRule(draft.GroupIncome).Visible {
		f = append(f, fieldIncomeMember, fieldIncomeSubtype, fieldIncomeAccount)
	}
	f = append(f, fieldSubmit)
	m.fields = f
	if m.cursor >= len(f) {
		m.cursor = len(f) - 1
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.submitting = false
		m.status = "movement saved"
		m.quitting = true
		return m, tea.Quit

	case degradedMsg:
		// Saved but not synced downstream: warn, then reset instead of
		// keeping an error state.
		m.submitting = false
		m.banner = msg.warning
		return m, tea.Tick(resetDelay, func(time.Time) tea.Msg { return resetMsg{} })

	case failedMsg:
		// No retry policy: surface the error and re-enable the form.
		m.submitting = false
		m.errMsg = errorMessage(msg.err)
		return m, nil

	case resetMsg:
		m.banner = ""
		if m.draft.EditID != "" {
			m.status = "movement updated (sync pending)"
			m.quitting = true
			return m, tea.Quit
		}
		fresh := draft.New(m.draft.Config(), m.draft.CurrentUser(), m.draft.Currency)
		m.draft = fresh
		m.choosingType = true
		m.cursor = 0
		m.editing = false
		m.rebuildFields()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.submitting {
			// Form is disabled while the request is in flight.
			return m, nil
		}
		if m.choosingType {
			return m.updateTypeChooser(msg)
		}
		if m.editing {
			return m.updateTextEntry(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

var selectableTypes = []draft.FormType{
	draft.TypeHousehold, draft.TypeSplit, draft.TypeLoan, draft.TypeIncome,
}

func (m Model) updateTypeChooser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.typeCursor > 0 {
			m.typeCursor--
		}
	case "down", "j":
		if m.typeCursor < len(selectableTypes)-1 {
			m.typeCursor++
		}
	case "enter":
		if err := m.draft.SetType(selectableTypes[m.typeCursor]); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.choosingType = false
		m.errMsg = ""
		m.rebuildFields()
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateTextEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitInput()
		m.editing = false
	case "esc":
		m.editing = false
		m.input = ""
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.input += msg.String()
		}
	}
	return m, nil
}

func (m *Model) commitInput() {
	val := strings.TrimSpace(m.input)
	switch m.fields[m.cursor] {
	case fieldDate:
		m.draft.Date = val
	case fieldDescription:
		m.draft.Description = val
	case fieldAmount:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			m.draft.Amount = f
		} else {
			m.errMsg = "amount must be a number"
		}
	case fieldParticipants:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			m.errMsg = "share must be a number"
			break
		}
		var serr error
		if m.draft.Unit == calculator.UnitValue {
			serr = m.draft.SetShareValue(m.shareCursor, f)
		} else {
			serr = m.draft.SetSharePercent(m.shareCursor, f)
		}
		if serr != nil {
			m.errMsg = serr.Error()
		}
	}
	m.input = ""
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.fields[m.cursor]
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		m.status = "discarded"
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}

	case "t":
		// Change type; refused on edit drafts, where the type is locked.
		if m.draft.TypeLocked {
			m.errMsg = draft.ErrTypeLocked.Error()
			return m, nil
		}
		m.choosingType = true
		m.errMsg = ""
		return m, nil

	case "left", "h":
		m.cycle(cur, -1)
	case "right", "l":
		m.cycle(cur, +1)

	case "enter", " ":
		switch cur {
		case fieldDate, fieldDescription, fieldAmount:
			m.editing = true
			m.input = ""
			m.errMsg = ""
		case fieldParticipants:
			if m.draft.Equitable {
				m.errMsg = draft.ErrEquitableShares.Error()
				return m, nil
			}
			if len(m.draft.Shares) > 0 {
				m.editing = true
				m.input = ""
				m.errMsg = ""
			}
		case fieldSubmit:
			return m.submit()
		default:
			m.cycle(cur, +1)
		}

	case "tab":
		if cur == fieldParticipants && len(m.draft.Shares) > 0 {
			m.shareCursor = (m.shareCursor + 1) % len(m.draft.Shares)
		}
	case "a":
		if cur == fieldParticipants {
			m.addNextParty()
		}
	case "x":
		if cur == fieldParticipants && len(m.draft.Shares) > 0 {
			m.draft.RemoveShare(m.shareCursor)
			if m.shareCursor >= len(m.draft.Shares) && m.shareCursor > 0 {
				m.shareCursor--
			}
		}
	case "e":
		if cur == fieldParticipants {
			m.draft.SetEquitable(!m.draft.Equitable)
		}
	case "u":
		if cur == fieldParticipants {
			m.draft.ToggleUnit()
		}
	}
	return m, nil
}

// cycle moves a selector field through its options.
func (m *Model) cycle(cur field, dir int) {
	cfg := m.draft.Config()
	switch cur {
	case fieldCategory:
		m.draft.CategoryID = cycleID(ids(cfg.Categories, func(c models.Category) string { return c.ID }), m.draft.CategoryID, dir)
	case fieldPayer:
		parties := m.parties()
		m.draft.SetPayer(cycleParty(parties, m.draft.Payer, dir))
	case fieldDirection:
		if m.draft.Direction == draft.DirectionLend {
			m.draft.Direction = draft.DirectionRepay
		} else {
			m.draft.Direction = draft.DirectionLend
		}
	case fieldCounterparty:
		m.draft.Counterparty = cycleParty(m.parties(), m.draft.Counterparty, dir)
	case fieldMethod:
		m.draft.PaymentMethodID = cycleID(ids(m.draft.AvailableMethods(), func(p models.PaymentMethod) string { return p.ID }), m.draft.PaymentMethodID, dir)
	case fieldIncomeMember:
		m.draft.IncomeMemberID = cycleID(ids(cfg.Users, func(u models.Member) string { return u.ID }), m.draft.IncomeMemberID, dir)
	case fieldIncomeSubtype:
		subs := make([]string, len(models.IncomeSubtypes))
		for i, s := range models.IncomeSubtypes {
			subs[i] = string(s)
		}
		m.draft.IncomeSubtype = models.IncomeSubtype(cycleID(subs, string(m.draft.IncomeSubtype), dir))
	case fieldIncomeAccount:
		m.draft.IncomeAccountID = cycleID(ids(m.accounts, func(a models.Account) string { return a.ID }), m.draft.IncomeAccountID, dir)
	}
}

// parties lists every selectable payer/counterparty: members first, then
// contacts.
func (m *Model) parties() []models.PartyRef {
	cfg := m.draft.Config()
	out := make([]models.PartyRef, 0, len(cfg.Users)+len(cfg.Contacts))
	for _, u := range cfg.Users {
		out = append(out, models.MemberRef(u))
	}
	for _, c := range cfg.Contacts {
		out = append(out, models.ContactRef(c))
	}
	return out
}

// addNextParty appends the first configured party not yet participating.
// The draft deduplicates, so re-adding is harmless.
func (m *Model) addNextParty() {
	for _, p := range m.parties() {
		present := false
		for _, s := range m.draft.Shares {
			if s.Party.Same(p) {
				present = true
				break
			}
		}
		if !present {
			m.draft.AddShare(p)
			return
		}
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	// Validate before the network call; validation failures never leave
	// the process.
	if m.draft.EditID != "" {
		u, err := api.BuildUpdate(m.draft)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		client, id := m.client, m.draft.EditID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return outcome(client.Update(ctx, id, u))
		}
	}

	p, err := api.Build(m.draft)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return outcome(client.Submit(ctx, p))
	}
}

func outcome(err error) tea.Msg {
	if err == nil {
		return submittedMsg{}
	}
	if api.IsDegraded(err) {
		return degradedMsg{warning: err.Error()}
	}
	return failedMsg{err: err}
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

// cycleID steps through options; an unset current lands on the first one.
func cycleID(options []string, current string, dir int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		return options[0]
	}
	idx = (idx + dir + len(options)) % len(options)
	return options[idx]
}

func cycleParty(options []models.PartyRef, current models.PartyRef, dir int) models.PartyRef {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if o.Same(current) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return options[0]
	}
	idx = (idx + dir + len(options)) % len(options)
	return options[idx]
}
