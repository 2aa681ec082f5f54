// Package models defines the core domain models for casaflow.
//
// # Model overview
//
//   - Member: a household member with an account in the system
//   - Contact: an external party (friend, landlord) with no account
//   - PartyRef: a reference to either of the two, used wherever a payer,
//     counterparty or participant can be one or the other
//   - PaymentMethod: a card or cash method owned by a member, optionally
//     shared with the whole household
//   - Category / CategoryGroup: expense categorization
//   - Account: a money account (savings, cash, ...) owned by a member
//   - Movement: a stored transaction (household expense, split, debt payment)
//   - Income: a stored income entry, kept separate from movements
//
// # Design principles
//
//  1. Relationships use ID strings, never pointers, to avoid circular
//     references between aggregates.
//  2. Share percentages are stored as fractions (0..1), the same unit the
//     wire format uses. The draft layer works in human percentages (0..100)
//     and converts at its boundary.
//  3. Movement type is immutable after creation; edits never resubmit it.
package models
