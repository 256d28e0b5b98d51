package models

// University is one record of the local dataset used for name search and
// canonicalization.
type University struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// UniversityDetail is the remote lookup result, shaped after the hipolabs
// search API.
type UniversityDetail struct {
	Name         string   `json:"name"`
	Country      string   `json:"country"`
	AlphaTwoCode string   `json:"alpha_two_code"`
	Domains      []string `json:"domains"`
	WebPages     []string `json:"web_pages"`
}
