package leads

import "time"

// Submission is the untrusted body posted by the landing-page form.
type Submission struct {
	Name        string `json:"name" validate:"leadname"`
	Email       string `json:"email" validate:"leademail"`
	Phone       string `json:"phone"`
	CountryCode string `json:"country_code,omitempty"`

	// UTM parameters
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	UTMContent  string `json:"utm_content,omitempty"`
	UTMTerm     string `json:"utm_term,omitempty"`

	// Ad click identifiers
	GCLID  string `json:"gclid,omitempty"`
	GBRAID string `json:"gbraid,omitempty"`
	WBRAID string `json:"wbraid,omitempty"`
	TTCLID string `json:"ttclid,omitempty"`

	// Meta browser identifiers
	FBP string `json:"fbp,omitempty"`
	FBC string `json:"fbc,omitempty"`

	LandingPageURL string `json:"landing_page_url,omitempty"`
	Referrer       string `json:"referrer,omitempty"`
}

// RequestMeta is what the handler extracts from the HTTP request itself.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	// Values of the _fbp/_fbc cookies set by the Meta pixel, if any.
	CookieFBP string
	CookieFBC string
}

// Payload is the flat record delivered to every destination. Key names are
// consumed by the CRM automations and must stay stable.
type Payload struct {
	LeadID    string `json:"lead_id"`
	FirstName string `json:"firstname"`
	Surname   string `json:"surname"`
	FullName  string `json:"fullname"`
	Email     string `json:"email"`

	Phone              string `json:"phone"`
	PhoneFormatted     string `json:"phone_formatted"`
	PhoneFull          string `json:"phone_full"`
	PhoneInternational string `json:"phone_international"`
	CountryCode        string `json:"country_code"`
	CodeID             string `json:"code_id"`

	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMContent  string `json:"utm_content"`
	UTMTerm     string `json:"utm_term"`

	GCLID  string `json:"gclid"`
	GBRAID string `json:"gbraid"`
	WBRAID string `json:"wbraid"`
	FBP    string `json:"fbp"`
	FBC    string `json:"fbc"`
	TTCLID string `json:"ttclid"`

	LandingPageURL string `json:"landing_page_url"`
	Referrer       string `json:"referrer"`

	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
	Site      string `json:"site,omitempty"`

	ValidationCode string `json:"validation_code,omitempty"`

	// OccurredAt is the instant CreatedAt was rendered from.
	OccurredAt time.Time `json:"-"`
}

// Response is the JSON body returned to the form.
type Response struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// DeliveryResult is the outcome of sending one payload to one destination.
type DeliveryResult struct {
	Destination string
	Duration    time.Duration
	Err         error
}
