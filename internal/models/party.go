package models

import "strings"

// Member represents a household member.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string `json:"id"`

	// Name is the display name of the member.
	Name string `json:"name"`

	// Email is the member's email address (unique).
	Email string `json:"email,omitempty"`

	// CreatedAt is the Unix timestamp when the member was created.
	CreatedAt int64 `json:"created_at,omitempty"`
}

// Contact represents an external party with no account of their own:
// someone the household lends to, borrows from, or splits expenses with.
type Contact struct {
	// ID is the unique identifier for the contact (UUID format).
	ID string `json:"id"`

	// Name is the display name of the contact.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the contact was created.
	CreatedAt int64 `json:"created_at,omitempty"`
}

// PartyKind discriminates the two identity types a PartyRef can point at.
type PartyKind string

const (
	PartyMember  PartyKind = "member"
	PartyContact PartyKind = "contact"
)

// PartyRef references either a household member or a contact.
// The zero value means "no party selected".
type PartyRef struct {
	Kind PartyKind `json:"kind"`
	ID   string    `json:"id"`
	Name string    `json:"name"`
}

// MemberRef builds a PartyRef for a member.
func MemberRef(m Member) PartyRef {
	return PartyRef{Kind: PartyMember, ID: m.ID, Name: m.Name}
}

// ContactRef builds a PartyRef for a contact.
func ContactRef(c Contact) PartyRef {
	return PartyRef{Kind: PartyContact, ID: c.ID, Name: c.Name}
}

// IsZero reports whether no party has been selected.
func (p PartyRef) IsZero() bool {
	return p.Kind == "" && p.ID == ""
}

// IsMember reports whether the reference points at a household member.
func (p PartyRef) IsMember() bool {
	return p.Kind == PartyMember
}

// Same reports whether two references point at the same underlying identity.
// Identity is the (kind, id) pair when both IDs are set; otherwise a
// case-insensitive display-name match, mirroring how participants are
// deduplicated in the form.
func (p PartyRef) Same(o PartyRef) bool {
	if p.ID != "" && o.ID != "" {
		return p.Kind == o.Kind && p.ID == o.ID
	}
	return strings.EqualFold(p.Name, o.Name)
}
