// Package models defines the data structures used across the application.
// Section types map to the JSONB columns of the complaints table.
package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusSubmitted is the status every complaint is created with.
// Later statuses are assigned outside this service.
const StatusSubmitted = "Submitted"

// Address is a street/suburb/postal code triple
type Address struct {
	Street     string `json:"street,omitempty"`
	Suburb     string `json:"suburb,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// IsZero reports whether no address field is set
func (a Address) IsZero() bool {
	return a.Street == "" && a.Suburb == "" && a.PostalCode == ""
}

// Complete reports whether street, suburb and postal code are all set
func (a Address) Complete() bool {
	return a.Street != "" && a.Suburb != "" && a.PostalCode != ""
}

// Complainant is the person or party lodging the complaint
type Complainant struct {
	Type          string  `json:"type,omitempty" validate:"required"`
	Title         string  `json:"title,omitempty"`
	FirstName     string  `json:"firstName,omitempty" validate:"required"`
	LastName      string  `json:"lastName,omitempty" validate:"required"`
	IDNumber      string  `json:"idNumber,omitempty" validate:"required"`
	Gender        string  `json:"gender,omitempty"`
	Email         string  `json:"email,omitempty" validate:"required"`
	HomePhone     string  `json:"homePhone,omitempty"`
	WorkPhone     string  `json:"workPhone,omitempty"`
	MobilePhone   string  `json:"mobilePhone,omitempty"`
	PreferredComm string  `json:"preferredComm,omitempty"`
	Physical      Address `json:"physical"`
	Postal        Address `json:"postal"`
}

// Respondent is the party the complaint is made against
type Respondent struct {
	Title       string  `json:"title,omitempty"`
	FirstName   string  `json:"firstName,omitempty"`
	LastName    string  `json:"lastName,omitempty" validate:"required"`
	IDNumber    string  `json:"idNumber,omitempty"`
	Email       string  `json:"email,omitempty"`
	HomePhone   string  `json:"homePhone,omitempty"`
	WorkPhone   string  `json:"workPhone,omitempty"`
	MobilePhone string  `json:"mobilePhone,omitempty"`
	Physical    Address `json:"physical"`
}

// Property is the rental property in dispute
type Property struct {
	Address string `json:"address,omitempty" validate:"required"`
	Type    string `json:"type,omitempty" validate:"required"`
}

// ComplaintInfo describes the nature of the complaint
type ComplaintInfo struct {
	Type    string `json:"type,omitempty" validate:"required"`
	Details string `json:"details,omitempty"`
}

// Representative optionally acts for the complainant. Every field is optional.
type Representative struct {
	RepType string  `json:"repType,omitempty"`
	Name    string  `json:"name,omitempty"`
	Company string  `json:"company,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Email   string  `json:"email,omitempty"`
	Address Address `json:"address"`
}

// IsZero reports whether the representative section was left blank
func (r Representative) IsZero() bool {
	return r.RepType == "" && r.Name == "" && r.Company == "" &&
		r.Phone == "" && r.Email == "" && r.Address.IsZero()
}

// Draft is the in-progress complaint held by an intake session.
// All sections are always present, possibly empty.
type Draft struct {
	Complainant    Complainant    `json:"complainant"`
	Respondent     Respondent     `json:"respondent"`
	Property       Property       `json:"property"`
	Complaint      ComplaintInfo  `json:"complaint"`
	Representative Representative `json:"representative"`
}

// NewComplaint is the insert payload written to the store on submission
type NewComplaint struct {
	Status         string          `json:"status"`
	Reference      string          `json:"reference"`
	Complainant    Complainant     `json:"complainant"`
	Respondent     Respondent      `json:"respondent"`
	Property       Property        `json:"property"`
	Complaint      ComplaintInfo   `json:"complaint"`
	Representative *Representative `json:"representative"`
}

// ComplaintRecord is a persisted complaint as read back from the store
type ComplaintRecord struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	Status         string          `json:"status" db:"status"`
	Reference      string          `json:"reference,omitempty" db:"reference"`
	Complainant    Complainant     `json:"complainant" db:"complainant"`
	Respondent     Respondent      `json:"respondent" db:"respondent"`
	Property       Property        `json:"property" db:"property"`
	Complaint      ComplaintInfo   `json:"complaint" db:"complaint"`
	Representative *Representative `json:"representative" db:"representative"`
}

// Confirmation holds the identity fields the store returns for an insert
type Confirmation struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
}

// StatusCounts is the month-to-date tally shown on the dashboard
type StatusCounts struct {
	Submitted   int       `json:"submitted"`
	UnderReview int       `json:"under_review"`
	Scheduled   int       `json:"scheduled"`
	Resolved    int       `json:"resolved"`
	Since       time.Time `json:"since"`
}

// HealthStatus represents the server health check response
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
}
