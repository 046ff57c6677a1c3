package models

import "time"

// StaffRole is a marshal's function within a single event.
type StaffRole string

const (
	StaffEventMarshal StaffRole = "EventMarshal"
	StaffSubMarshal   StaffRole = "SubMarshal"
	StaffCoordinator  StaffRole = "Coordinator"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentVerified PaymentStatus = "Verified"
)

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "Pending"
	RegistrationApproved RegistrationStatus = "Approved"
	RegistrationRejected RegistrationStatus = "Rejected"
)

type Event struct {
	ID             string    `json:"id"`
	EventName      string    `json:"event_name"`
	EventDate      time.Time `json:"event_date"`
	Location       string    `json:"location"`
	TargetAudience string    `json:"target_audience"`
	Description    string    `json:"description"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Creator        *UserRef  `json:"creator,omitempty"`
}

type EventCategory struct {
	ID             string    `json:"id"`
	CategoryName   string    `json:"category_name"`
	Description    string    `json:"description"`
	TargetAudience string    `json:"target_audience"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Creator        *UserRef  `json:"creator,omitempty"`
}

type EventStaff struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	UserID           string    `json:"user_id"`
	RoleInEvent      StaffRole `json:"role_in_event"`
	Responsibilities string    `json:"responsibilities"`
	AssignedAt       time.Time `json:"assigned_at"`
	User             *UserRef  `json:"user,omitempty"`
	Event            *EventRef `json:"event,omitempty"`
}

type EventRef struct {
	EventName string `json:"event_name"`
}

type CategoryRef struct {
	CategoryName string `json:"category_name"`
}

type Participant struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	RFIDNumber         *string            `json:"rfid_number"`
	CategoryID         string             `json:"category_id"`
	PaymentStatus      PaymentStatus      `json:"payment_status"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	RegisteredAt       time.Time          `json:"registered_at"`
	User               *UserRef           `json:"user,omitempty"`
	Category           *CategoryRef       `json:"category,omitempty"`
}

type Result struct {
	ID             string          `json:"id"`
	ParticipantID  string          `json:"participant_id"`
	CategoryID     string          `json:"category_id"`
	CompletionTime string          `json:"completion_time"`
	Ranking        int             `json:"ranking"`
	Notes          *string         `json:"notes"`
	RecordedAt     time.Time       `json:"recorded_at"`
	Participant    *Participant    `json:"participant,omitempty"`
	Category       *CategoryRef    `json:"category,omitempty"`
}
