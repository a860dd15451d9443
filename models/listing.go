package models

import "time"

// RawListing mirrors one listing record as returned by the upstream
// job-board API. Field names follow the upstream JSON exactly.
type RawListing struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Organization     string        `json:"organization"`
	OrganizationURL  string        `json:"organization_url"`
	OrganizationLogo string        `json:"organization_logo"`
	LocationsRaw     []RawLocation `json:"locations_raw"`
	EmploymentType   []string      `json:"employment_type"`
	Seniority        string        `json:"seniority"`
	URL              string        `json:"url"`
	ExternalApplyURL string        `json:"external_apply_url"`
	DirectApply      bool          `json:"directapply"`
	DatePosted       string        `json:"date_posted"`
	DateCreated      string        `json:"date_created"`
	DateValidThrough string        `json:"date_validthrough"`
	SourceType       string        `json:"source_type"`
	Source           string        `json:"source"`
	SourceDomain     string        `json:"source_domain"`
	CitiesDerived    []string      `json:"cities_derived"`
	RegionsDerived   []string      `json:"regions_derived"`
	CountriesDerived []string      `json:"countries_derived"`
	LocationsDerived []string      `json:"locations_derived"`
	TimezonesDerived []string      `json:"timezones_derived"`
	LatsDerived      []float64     `json:"lats_derived"`
	LngsDerived      []float64     `json:"lngs_derived"`
	RemoteDerived    bool          `json:"remote_derived"`
}

// RawLocation is one entry of locations_raw (schema.org Place).
type RawLocation struct {
	Type      string     `json:"@type"`
	Address   RawAddress `json:"address"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
}

// RawAddress is the nested schema.org PostalAddress.
type RawAddress struct {
	Type            string `json:"@type"`
	AddressCountry  string `json:"addressCountry"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	StreetAddress   string `json:"streetAddress"`
}

// Internship is the persisted listing shape. api_id and title are the only
// mandatory fields; everything else is nullable. Array fields are stored as
// JSON-encoded text and must be parsed back by readers.
type Internship struct {
	ID               int64      `json:"id" db:"id"`
	APIID            string     `json:"api_id" db:"api_id"`
	Title            string     `json:"title" db:"title"`
	Organization     *string    `json:"organization" db:"organization"`
	OrganizationURL  *string    `json:"organization_url" db:"organization_url"`
	OrganizationLogo *string    `json:"organization_logo" db:"organization_logo"`
	AddressCountry   *string    `json:"address_country" db:"address_country"`
	AddressLocality  *string    `json:"address_locality" db:"address_locality"`
	AddressRegion    *string    `json:"address_region" db:"address_region"`
	Latitude         *float64   `json:"latitude" db:"latitude"`
	Longitude        *float64   `json:"longitude" db:"longitude"`
	EmploymentType   *string    `json:"employment_type" db:"employment_type"`
	Seniority        *string    `json:"seniority" db:"seniority"`
	URL              *string    `json:"url" db:"url"`
	ExternalApplyURL *string    `json:"external_apply_url" db:"external_apply_url"`
	DirectApply      bool       `json:"direct_apply" db:"direct_apply"`
	DatePosted       *time.Time `json:"date_posted" db:"date_posted"`
	DateCreated      *time.Time `json:"date_created" db:"date_created"`
	DateValidThrough *time.Time `json:"date_validthrough" db:"date_validthrough"`
	SourceType       *string    `json:"source_type" db:"source_type"`
	Source           *string    `json:"source" db:"source"`
	SourceDomain     *string    `json:"source_domain" db:"source_domain"`
	RemoteDerived    bool       `json:"remote_derived" db:"remote_derived"`
	CitiesDerived    *string    `json:"cities_derived" db:"cities_derived"`
	RegionsDerived   *string    `json:"regions_derived" db:"regions_derived"`
	CountriesDerived *string    `json:"countries_derived" db:"countries_derived"`
	LocationsDerived *string    `json:"locations_derived" db:"locations_derived"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// ListFilters narrows the internship list endpoint.
type ListFilters struct {
	Search         string
	Location       string
	Organization   string
	EmploymentType string
	Remote         *bool
	Page           int
	Limit          int
}

// Pagination describes one page of list results.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}
