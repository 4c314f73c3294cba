package metacapi

// EventsRequest is the body POSTed to /{pixel_id}/events.
type EventsRequest struct {
	Data          []Event `json:"data"`
	AccessToken   string  `json:"access_token"`
	TestEventCode string  `json:"test_event_code,omitempty"`
}

// Event is a single server-side conversion event.
type Event struct {
	EventName      string     `json:"event_name"`
	EventTime      int64      `json:"event_time"`
	EventID        string     `json:"event_id,omitempty"`
	EventSourceURL string     `json:"event_source_url,omitempty"`
	ActionSource   string     `json:"action_source"`
	UserData       UserData   `json:"user_data"`
	CustomData     CustomData `json:"custom_data"`
}

// UserData identifies the visitor. em, ph, fn, ln and country must be SHA-256 hex digests.
type UserData struct {
	Emails          []string `json:"em,omitempty"`
	Phones          []string `json:"ph,omitempty"`
	FirstNames      []string `json:"fn,omitempty"`
	LastNames       []string `json:"ln,omitempty"`
	Countries       []string `json:"country,omitempty"`
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
	FBP             string   `json:"fbp,omitempty"`
	FBC             string   `json:"fbc,omitempty"`
}

// CustomData carries campaign attribution alongside the event.
type CustomData struct {
	ContentName     string `json:"content_name,omitempty"`
	ContentCategory string `json:"content_category,omitempty"`
	UTMSource       string `json:"utm_source,omitempty"`
	UTMMedium       string `json:"utm_medium,omitempty"`
	UTMCampaign     string `json:"utm_campaign,omitempty"`
	UTMContent      string `json:"utm_content,omitempty"`
	UTMTerm         string `json:"utm_term,omitempty"`
}

// EventsResponse is the Graph API reply.
type EventsResponse struct {
	EventsReceived int       `json:"events_received"`
	FBTraceID      string    `json:"fbtrace_id,omitempty"`
	Error          *APIError `json:"error,omitempty"`
}

// APIError is the Graph API error envelope.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id,omitempty"`
}
