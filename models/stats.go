package models

type CountryCount struct {
	AddressCountry string `json:"address_country"`
	Count          int64  `json:"count"`
}

type OrganizationCount struct {
	Organization string `json:"organization"`
	Count        int64  `json:"count"`
}

type RemoteCount struct {
	RemoteDerived bool  `json:"remote_derived"`
	Count         int64 `json:"count"`
}

// StatsSummary aggregates the listings table for the stats endpoint.
type StatsSummary struct {
	TotalJobs          int64               `json:"totalJobs"`
	JobsByCountry      []CountryCount      `json:"jobsByCountry"`
	JobsByOrganization []OrganizationCount `json:"jobsByOrganization"`
	RemoteStats        []RemoteCount       `json:"remoteStats"`
}

// OrganizationSummary is one row of the organizations dropdown.
type OrganizationSummary struct {
	Organization     string  `json:"organization"`
	OrganizationLogo *string `json:"organization_logo"`
	JobCount         int64   `json:"job_count"`
}
