package models

// PaymentMethod is a way of paying (card, cash, transfer) owned by one
// household member and optionally shared with the rest of the household.
type PaymentMethod struct {
	// ID is the unique identifier for the method (UUID format).
	ID string `json:"id"`

	// Name is the display name (e.g., "Visa ****1234", "Cash").
	Name string `json:"name"`

	// OwnerID is the member who owns the method.
	OwnerID string `json:"owner_id"`

	// SharedWithHousehold marks the method as usable by any member.
	SharedWithHousehold bool `json:"shared_with_household"`
}

// CategoryGroup groups related categories (e.g., "Home" holding "Rent",
// "Utilities").
type CategoryGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is an expense category. Only household and split movements carry
// one.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id,omitempty"`
}

// AccountType classifies money accounts. Income destinations are restricted
// to savings and cash accounts.
type AccountType string

const (
	AccountSavings  AccountType = "savings"
	AccountCash     AccountType = "cash"
	AccountChecking AccountType = "checking"
	AccountCredit   AccountType = "credit"
)

// Account is a money account owned by a member.
type Account struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	OwnerID string      `json:"owner_id"`
	Type    AccountType `json:"type"`
}

// FormConfig is everything the movement form needs to render its selectors.
// Fetched once per form session.
type FormConfig struct {
	Users          []Member        `json:"users"`
	Contacts       []Contact       `json:"contacts"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
	Categories     []Category      `json:"categories"`
	CategoryGroups []CategoryGroup `json:"category_groups"`
}

// MemberByID returns the member with the given ID, if present.
func (c *FormConfig) MemberByID(id string) (Member, bool) {
	for _, m := range c.Users {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// ContactByID returns the contact with the given ID, if present.
func (c *FormConfig) ContactByID(id string) (Contact, bool) {
	for _, ct := range c.Contacts {
		if ct.ID == id {
			return ct, true
		}
	}
	return Contact{}, false
}

// MethodByID returns the payment method with the given ID, if present.
func (c *FormConfig) MethodByID(id string) (PaymentMethod, bool) {
	for _, m := range c.PaymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// OwnerName resolves a payment method's owner to a display name.
// Falls back to the raw owner ID when the member list does not contain it.
func (c *FormConfig) OwnerName(method PaymentMethod) string {
	if m, ok := c.MemberByID(method.OwnerID); ok {
		return m.Name
	}
	return method.OwnerID
}

// ResolveParty rebuilds a PartyRef from stored user/contact ID columns,
// preferring the member side when both are present.
func (c *FormConfig) ResolveParty(userID, contactID string) PartyRef {
	if userID != "" {
		if m, ok := c.MemberByID(userID); ok {
			return MemberRef(m)
		}
		return PartyRef{Kind: PartyMember, ID: userID}
	}
	if contactID != "" {
		if ct, ok := c.ContactByID(contactID); ok {
			return ContactRef(ct)
		}
		return PartyRef{Kind: PartyContact, ID: contactID}
	}
	return PartyRef{}
}
