package jobboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cari_magang/models"
)

// ErrMalformedRecord means a listing is missing its external id or title and
// cannot be deduplicated or displayed. Such records are dropped per-record.
var ErrMalformedRecord = errors.New("jobboard: listing missing required fields")

// Upstream timestamps come in second precision, microsecond precision, or
// full RFC 3339, depending on the field.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Normalize flattens one raw API record into the persisted shape. Pure: no
// I/O, no mutation of the input. The primary location is the first
// locations_raw entry; array fields are JSON-encoded for storage;
// directapply and remote_derived default to false.
func Normalize(raw models.RawListing) (models.Internship, error) {
	if raw.ID == "" || raw.Title == "" {
		return models.Internship{}, fmt.Errorf("%w: id=%q title=%q", ErrMalformedRecord, raw.ID, raw.Title)
	}

	in := models.Internship{
		APIID:            raw.ID,
		Title:            raw.Title,
		Organization:     optString(raw.Organization),
		OrganizationURL:  optString(raw.OrganizationURL),
		OrganizationLogo: optString(raw.OrganizationLogo),
		EmploymentType:   marshalStrings(raw.EmploymentType),
		Seniority:        optString(raw.Seniority),
		URL:              optString(raw.URL),
		ExternalApplyURL: optString(raw.ExternalApplyURL),
		DirectApply:      raw.DirectApply,
		DatePosted:       parseAPITime(raw.DatePosted),
		DateCreated:      parseAPITime(raw.DateCreated),
		DateValidThrough: parseAPITime(raw.DateValidThrough),
		SourceType:       optString(raw.SourceType),
		Source:           optString(raw.Source),
		SourceDomain:     optString(raw.SourceDomain),
		RemoteDerived:    raw.RemoteDerived,
		CitiesDerived:    marshalStrings(raw.CitiesDerived),
		RegionsDerived:   marshalStrings(raw.RegionsDerived),
		CountriesDerived: marshalStrings(raw.CountriesDerived),
		LocationsDerived: marshalStrings(raw.LocationsDerived),
	}

	if len(raw.LocationsRaw) > 0 {
		loc := raw.LocationsRaw[0]
		in.AddressCountry = optString(loc.Address.AddressCountry)
		in.AddressLocality = optString(loc.Address.AddressLocality)
		in.AddressRegion = optString(loc.Address.AddressRegion)
		in.Latitude = loc.Latitude
		in.Longitude = loc.Longitude
	}

	return in, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// marshalStrings JSON-encodes a derived array, or nil when the source array
// is absent so the column stays NULL.
func marshalStrings(values []string) *string {
	if values == nil {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// parseAPITime tries the known upstream layouts; unparseable or empty dates
// become NULL rather than failing the record.
func parseAPITime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
