package types

// Unknown is the sentinel shown for metadata fields that could not be read.
const Unknown = "-"

// Metadata holds the best-effort camera/exposure/GPS fields for one image.
// Every field defaults to the Unknown sentinel so consumers never have to
// distinguish "absent" from "present but empty".
type Metadata struct {
	Camera      string `json:"camera"`
	ISO         string `json:"iso"`
	Shutter     string `json:"shutter"`
	Aperture    string `json:"aperture"`
	FocalLength string `json:"focal_length"`
	DateTaken   string `json:"date_taken"`
	GPS         string `json:"gps"`
}

// NewMetadata returns a Metadata with every field set to the Unknown sentinel.
func NewMetadata() Metadata {
	return Metadata{
		Camera:      Unknown,
		ISO:         Unknown,
		Shutter:     Unknown,
		Aperture:    Unknown,
		FocalLength: Unknown,
		DateTaken:   Unknown,
		GPS:         Unknown,
	}
}

// MetadataField pairs a display label with its value, preserving panel order.
type MetadataField struct {
	Label string
	Value string
}

// Fields returns the metadata as ordered label/value pairs for display panels.
func (m Metadata) Fields() []MetadataField {
	return []MetadataField{
		{"Camera", m.Camera},
		{"ISO", m.ISO},
		{"Shutter", m.Shutter},
		{"Aperture", m.Aperture},
		{"Focal Length", m.FocalLength},
		{"Date Taken", m.DateTaken},
		{"GPS", m.GPS},
	}
}
