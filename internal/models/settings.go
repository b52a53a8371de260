package models

// Settings is the single-record user preference store, overwritten
// wholesale on save.
type Settings struct {
	Language        string `json:"language"`
	State           string `json:"state,omitempty"`
	District        string `json:"district,omitempty"`
	AutoSync        bool   `json:"autoSync"`
	HighAccuracyGPS bool   `json:"highAccuracyGps"`
	OfflineMaps     bool   `json:"offlineMaps"`
}

// DefaultSettings returns the preferences applied before the user saves any.
func DefaultSettings() Settings {
	return Settings{
		Language: "en",
		AutoSync: true,
	}
}
