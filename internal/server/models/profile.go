package models

import "time"

type RunnerProfile struct {
	ID                           string    `json:"id"`
	UserID                       string    `json:"user_id"`
	DateOfBirth                  time.Time `json:"date_of_birth"`
	Gender                       string    `json:"gender"`
	Address                      string    `json:"address"`
	TShirtSize                   string    `json:"tshirt_size"`
	EmergencyContactName         string    `json:"emergency_contact_name"`
	EmergencyContactPhone        string    `json:"emergency_contact_phone"`
	EmergencyContactRelationship string    `json:"emergency_contact_relationship"`
	CreatedAt                    time.Time `json:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at"`
	User                         *UserRef  `json:"user,omitempty"`
}

type MarshalProfile struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	DateOfBirth      time.Time `json:"date_of_birth"`
	Gender           string    `json:"gender"`
	Address          string    `json:"address"`
	OrganizationName string    `json:"organization_name"`
	RolePosition     string    `json:"role_position"`
	SocialMediaLinks *string   `json:"social_media_links"`
	Responsibilities string    `json:"responsibilities"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	User             *UserRef  `json:"user,omitempty"`
}
