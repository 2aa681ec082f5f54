package draft

import (
	"github.com/osanchezp/casaflow/internal/calculator"
	"github.com/osanchezp/casaflow/internal/models"
)

// AddShare appends a participant. Adding an identity that is already in the
// list is a silent no-op: participants are unique by underlying identity,
// deduplicated case-insensitively by display name. In equitable mode the
// percentages are recomputed across the new count.
func (d *Draft) AddShare(p models.PartyRef) {
	for _, s := range d.Shares {
		if s.Party.Same(p) {
			return
		}
	}
	d.Shares = append(d.Shares, Share{Party: p})
	d.rebalance()
}

// RemoveShare deletes participant i, recomputing equitable percentages over
// the remaining entries.
func (d *Draft) RemoveShare(i int) {
	if i < 0 || i >= len(d.Shares) {
		return
	}
	d.Shares = append(d.Shares[:i], d.Shares[i+1:]...)
	d.rebalance()
}

// SetShareParty changes participant i's identity. Selecting an identity
// already present elsewhere silently merges the two rows: the earlier row
// survives at its position (keeping its percentage) and the later one is
// dropped.
func (d *Draft) SetShareParty(i int, p models.PartyRef) {
	if i < 0 || i >= len(d.Shares) {
		return
	}
	for j, s := range d.Shares {
		if j != i && s.Party.Same(p) {
			if j < i {
				d.Shares = append(d.Shares[:i], d.Shares[i+1:]...)
			} else {
				d.Shares[i].Party = p
				d.Shares = append(d.Shares[:j], d.Shares[j+1:]...)
			}
			d.rebalance()
			return
		}
	}
	d.Shares[i].Party = p
}

// SetSharePercent sets participant i's percentage directly. Disallowed in
// equitable mode, where percentages are computed.
func (d *Draft) SetSharePercent(i int, pct float64) error {
	if d.Equitable {
		return ErrEquitableShares
	}
	if i < 0 || i >= len(d.Shares) {
		return nil
	}
	d.Shares[i].Percent = calculator.Round2(pct)
	return nil
}

// SetShareValue sets participant i's share as a currency value, converted
// to a percentage of the draft amount. Percentage stays the source of
// truth; the entered value is not retained.
func (d *Draft) SetShareValue(i int, value float64) error {
	if d.Equitable {
		return ErrEquitableShares
	}
	if d.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "set the amount before entering participant values"}
	}
	if i < 0 || i >= len(d.Shares) {
		return nil
	}
	d.Shares[i].Percent = calculator.Round2(calculator.PercentFromValue(value, d.Amount))
	return nil
}

// SetEquitable toggles equitable mode. Turning it on recomputes every
// percentage; turning it off freezes the current values for manual editing.
func (d *Draft) SetEquitable(on bool) {
	d.Equitable = on
	d.rebalance()
}

// ToggleUnit flips the share display between percentages and currency
// values. Only presentation and error reporting change; stored percentages
// are untouched.
func (d *Draft) ToggleUnit() {
	if d.Unit == calculator.UnitPercent {
		d.Unit = calculator.UnitValue
	} else {
		d.Unit = calculator.UnitPercent
	}
}

func (d *Draft) rebalance() {
	if !d.Equitable || len(d.Shares) == 0 {
		return
	}
	pcts := calculator.EquitablePercentages(len(d.Shares))
	for i := range d.Shares {
		d.Shares[i].Percent = pcts[i]
	}
}
