package dataset

// Column headers of the synthetic scenario dataset.
const (
	ColName            = "Name"
	ColPhoneNumber     = "Phone Number"
	ColResponse        = "Response Description"
	ColGaveInformation = "Gave Information"
	ColCallLength      = "Call Length (s)"
	ColScenario        = "Phishing Scenario"
)

// Row is one parsed dataset record. All fields are raw strings exactly as
// they appeared in the source; a column missing from the header leaves the
// field empty. Rows are never mutated after parsing.
type Row struct {
	Name            string `json:"name"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	Response        string `json:"response_description"`
	GaveInformation string `json:"gave_information,omitempty"`
	CallLength      string `json:"call_length_s"`
	Scenario        string `json:"phishing_scenario"`
}

// Field returns the value for a dataset column by its header name.
func (r Row) Field(column string) string {
	switch column {
	case ColName:
		return r.Name
	case ColPhoneNumber:
		return r.PhoneNumber
	case ColResponse:
		return r.Response
	case ColGaveInformation:
		return r.GaveInformation
	case ColCallLength:
		return r.CallLength
	case ColScenario:
		return r.Scenario
	}
	return ""
}

// Distinct returns the distinct non-empty values of a column in first-seen
// order. Used to populate the scenario and name dropdowns.
func Distinct(rows []Row, column string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		v := r.Field(column)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
