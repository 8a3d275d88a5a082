package crecord

// Attorney identifies the lawyer filing a petition. Attorneys are
// independent of any one record; a petition references one but does not
// own it.
type Attorney struct {
	Organization      string  `json:"organization"`
	FullName          string  `json:"full_name"`
	Address           Address `json:"address"`
	OrganizationPhone string  `json:"organization_phone"`
	BarID             string  `json:"bar_id"`
}
