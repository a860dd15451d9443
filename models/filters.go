package models

// SyncFilters selects which listings one sync run requests from the upstream
// API. Zero values mean "unset" and are omitted from the outbound request;
// Remote and Agency are tri-state, Offset is always sent.
type SyncFilters struct {
	TitleFilter             string `json:"title_filter,omitempty" yaml:"title_filter"`
	LocationFilter          string `json:"location_filter,omitempty" yaml:"location_filter"`
	DescriptionFilter       string `json:"description_filter,omitempty" yaml:"description_filter"`
	DescriptionType         string `json:"description_type,omitempty" yaml:"description_type"`
	Remote                  *bool  `json:"remote,omitempty" yaml:"remote"`
	Agency                  *bool  `json:"agency,omitempty" yaml:"agency"`
	Offset                  int    `json:"offset" yaml:"offset"`
	DateFilter              string `json:"date_filter,omitempty" yaml:"date_filter"`
	AdvancedTitleFilter     string `json:"advanced_title_filter,omitempty" yaml:"advanced_title_filter"`
	IncludeAI               bool   `json:"include_ai,omitempty" yaml:"include_ai"`
	AIWorkArrangementFilter string `json:"ai_work_arrangement_filter,omitempty" yaml:"ai_work_arrangement_filter"`
}

// DefaultSyncFilters is the filter set used when nothing else is configured:
// internships in Indonesia, on-site only, first page.
func DefaultSyncFilters() SyncFilters {
	remote := false
	return SyncFilters{
		TitleFilter:    "intern",
		LocationFilter: "Indonesia",
		Remote:         &remote,
	}
}
