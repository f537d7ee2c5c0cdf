package style

// Event is the static venue, date and contact information printed on every
// ticket page
type Event struct {
	Organizer  string    `yaml:"organizer"`
	Tagline    string    `yaml:"tagline"`
	Title      [3]string `yaml:"title"`
	Subtitle   string    `yaml:"subtitle"`
	Month      string    `yaml:"month"`
	Day        string    `yaml:"day"`
	Contact    []string  `yaml:"contact"`
	BrandColor Color     `yaml:"brand_color"`
	Author     string    `yaml:"author"`
}

// DefaultEvent is used unless the config file replaces it at startup
var DefaultEvent = Event{
	Organizer:  "Rotary Club of Lagos Central",
	Tagline:    "PRESENTED BY",
	Title:      [3]string{"ANNUAL", "CHARITY", "GALA NIGHT"},
	Subtitle:   "Eko Hotel & Suites, Victoria Island  |  6:00 PM",
	Month:      "FEB",
	Day:        "14",
	Contact:    []string{"Enquiries: +234 803 555 0142", "tickets@rotarylagoscentral.org"},
	BrandColor: MustHex("#1f3c88"),
	Author:     "Rotary Club of Lagos Central",
}
