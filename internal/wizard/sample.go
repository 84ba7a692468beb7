package wizard

import "encoding/json"

// samples is the per-step test data offered by the "fill test data" action
var samples = map[Step]any{
	StepComplainant: map[string]any{
		"type":          "Tenant",
		"title":         "Mr",
		"firstName":     "John",
		"lastName":      "Doe",
		"idNumber":      "8001015009087",
		"gender":        "Male",
		"email":         "john.doe@example.com",
		"homePhone":     "021-555-1234",
		"workPhone":     "021-555-5678",
		"mobilePhone":   "082-123-4567",
		"physical":      map[string]string{"street": "123 Main Road", "suburb": "Observatory", "postalCode": "7925"},
		"postal":        map[string]string{"street": "", "suburb": "", "postalCode": ""},
		"preferredComm": "Email",
	},
	StepRespondent: map[string]any{
		"title":       "Ms",
		"firstName":   "Sarah",
		"lastName":    "Johnson",
		"idNumber":    "7505125008084",
		"email":       "sarah.johnson@property.co.za",
		"homePhone":   "021-777-8888",
		"workPhone":   "021-999-0000",
		"mobilePhone": "083-987-6543",
		"physical":    map[string]string{"street": "456 Oak Avenue", "suburb": "Rondebosch", "postalCode": "7700"},
	},
	StepProperty: map[string]any{
		"address": "789 Pine Road, Newlands, Cape Town, 7700",
		"type":    "Flat",
	},
	StepComplaint: map[string]any{
		"type":    "Failure to Refund Deposit",
		"details": "Landlord has not returned deposit within 14 days after lease end. Provided exit inspection and proof of payments.",
	},
	StepRepresentative: map[string]any{
		"repType": "Attorney",
		"name":    "Michael Brown",
		"company": "Brown & Associates Legal",
		"phone":   "021-555-7890",
		"email":   "mbrown@brownlaw.co.za",
		"address": map[string]string{"street": "100 Business Park", "suburb": "Century City", "postalCode": "7441"},
	},
}

// FillSample patches the current step's section with sample data. The review
// step has nothing to fill and is left unchanged.
func (s *Session) FillSample() error {
	sample, ok := samples[s.CurrentStep]
	if !ok {
		return s.mutable()
	}
	patch, err := json.Marshal(sample)
	if err != nil {
		return err
	}
	return s.UpdateSection(s.CurrentStep.Section(), patch)
}
