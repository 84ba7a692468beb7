package models

// Options lists the choices offered by the intake form and the dashboard filters
type Options struct {
	ComplainantTypes    []string `json:"complainant_types"`
	Titles              []string `json:"titles"`
	Genders             []string `json:"genders"`
	PreferredComms      []string `json:"preferred_comms"`
	PropertyTypes       []string `json:"property_types"`
	ComplaintTypes      []string `json:"complaint_types"`
	RepresentativeTypes []string `json:"representative_types"`
	Statuses            []string `json:"statuses"`
}

// DefaultPreferredComm is preselected on a new draft
const DefaultPreferredComm = "Email"

// FormOptions returns the option lists. Values are advisory; the store accepts any string.
func FormOptions() Options {
	return Options{
		ComplainantTypes: []string{"Tenant", "Landlord", "Agent"},
		Titles:           []string{"Mr", "Ms", "Mrs", "Dr"},
		Genders:          []string{"Male", "Female", "Other"},
		PreferredComms:   []string{"Email", "Phone", "SMS"},
		PropertyTypes:    []string{"Flat", "House", "Room", "Backyard dwelling"},
		ComplaintTypes: []string{
			"Failure to Refund Deposit",
			"Unlawful Eviction / Lockout",
			"Utility Disconnection",
			"Maintenance / Repairs",
			"Rent Increase Dispute",
			"Harassment / Privacy Breach",
		},
		RepresentativeTypes: []string{"Attorney", "Paralegal", "Family Member", "Friend"},
		Statuses:            []string{"Draft", StatusSubmitted, "Under Review", "Resolved", "Rejected"},
	}
}
