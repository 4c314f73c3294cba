package leads

import (
	"strings"
	"time"
)

// Defaults sent when the visitor arrived without attribution. Downstream
// analytics match on these exact strings.
const (
	DefaultUTMSource   = "(direct)"
	DefaultUTMMedium   = "(none)"
	DefaultUTMCampaign = "(not set)"

	// DefaultSource tags every payload produced by the landing pages.
	DefaultSource = "landing_page"
)

const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Builder turns an accepted submission into the payload handed to the dispatcher.
type Builder struct {
	DefaultCountryCode string
	Source             string
	Site               string
	// ValidationCodes adds a six-digit WhatsApp validation code to every payload.
	ValidationCodes bool
	Now             func() time.Time
}

// Build normalizes sub. It assumes sub already passed the Validator.
func (b *Builder) Build(sub *Submission, meta RequestMeta) (*Payload, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	occurredAt := now().UTC()

	countryCode := EffectiveCountryCode(sub.CountryCode, b.DefaultCountryCode)
	phone := ReconcilePhone(sub.Phone, countryCode)
	name := SplitName(sub.Name)

	p := &Payload{
		LeadID:    GenerateLeadID(occurredAt),
		FirstName: name.First,
		Surname:   name.Surname,
		FullName:  name.Full,
		Email:     strings.ToLower(strings.TrimSpace(sub.Email)),

		Phone:              phone.Local,
		PhoneFormatted:     sub.Phone,
		PhoneFull:          phone.Full,
		PhoneInternational: phone.International,
		CountryCode:        countryCode,
		CodeID:             CountryCodeID(countryCode),

		UTMSource:   orDefault(sub.UTMSource, DefaultUTMSource),
		UTMMedium:   orDefault(sub.UTMMedium, DefaultUTMMedium),
		UTMCampaign: orDefault(sub.UTMCampaign, DefaultUTMCampaign),
		UTMContent:  sub.UTMContent,
		UTMTerm:     sub.UTMTerm,

		GCLID:  sub.GCLID,
		GBRAID: sub.GBRAID,
		WBRAID: sub.WBRAID,
		FBP:    orDefault(sub.FBP, meta.CookieFBP),
		FBC:    orDefault(sub.FBC, meta.CookieFBC),
		TTCLID: sub.TTCLID,

		LandingPageURL: sub.LandingPageURL,
		Referrer:       sub.Referrer,

		IPAddress:  meta.ClientIP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  occurredAt.Format(createdAtLayout),
		Source:     orDefault(b.Source, DefaultSource),
		Site:       b.Site,
		OccurredAt: occurredAt,
	}

	if b.ValidationCodes {
		code, err := GenerateValidationCode()
		if err != nil {
			return nil, err
		}
		p.ValidationCode = code
	}
	return p, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
