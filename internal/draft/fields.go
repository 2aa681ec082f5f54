package draft

// FieldGroup names the form sections whose visibility depends on the
// movement type.
type FieldGroup int

const (
	GroupCategory FieldGroup = iota
	GroupPayer
	GroupCounterparty
	GroupParticipants
	GroupPaymentMethod
	GroupIncome
)

// FieldRule says whether a field group is rendered and whether it must be
// filled before submit.
type FieldRule struct {
	Visible  bool
	Required bool
}

// visibility maps each form type to its field-group configuration.
//
//	group            HOUSEHOLD  SPLIT              LOAN               INGRESO
//	category         required   required           hidden             hidden
//	payer            hidden     required           required           hidden
//	counterparty     hidden     hidden             required           hidden
//	participants     hidden     required (>=1)     hidden             hidden
//	payment method   required   if payer member    if payer member    hidden
//	income fields    hidden     hidden             hidden             all required
func visibility(t FormType) map[FieldGroup]FieldRule {
	switch t {
	case TypeHousehold:
		return map[FieldGroup]FieldRule{
			GroupCategory:      {Visible: true, Required: true},
			GroupPaymentMethod: {Visible: true, Required: true},
		}
	case TypeSplit:
		return map[FieldGroup]FieldRule{
			GroupCategory:      {Visible: true, Required: true},
			GroupPayer:         {Visible: true, Required: true},
			GroupParticipants:  {Visible: true, Required: true},
			GroupPaymentMethod: {Visible: true}, // required iff payer is a member
		}
	case TypeLoan:
		return map[FieldGroup]FieldRule{
			GroupPayer:         {Visible: true, Required: true},
			GroupCounterparty:  {Visible: true, Required: true},
			GroupPaymentMethod: {Visible: true}, // required iff payer is a member
		}
	case TypeIncome:
		return map[FieldGroup]FieldRule{
			GroupIncome: {Visible: true, Required: true},
		}
	default:
		return map[FieldGroup]FieldRule{}
	}
}

// FieldRule resolves the rule for a group under the draft's current state,
// including the payer-dependent payment-method requirement.
func (d *Draft) FieldRule(g FieldGroup) FieldRule {
	rule := visibility(d.Type)[g]
	if g == GroupPaymentMethod && rule.Visible && !rule.Required {
		rule.Required = d.EffectivePayer().IsMember()
	}
	if g == GroupCategory && rule.Required && d.categoryOptional {
		rule.Required = false
	}
	return rule
}
