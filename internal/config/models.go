package config

// Registry represents the entire user configuration file.
// This stores the caller profile, dispatcher settings, and application
// preferences used to prefill and submit ambulance requests.
type Registry struct {
	Version     int          `yaml:"version"`
	Profile     *Profile     `yaml:"profile,omitempty"`
	Dispatcher  *Dispatcher  `yaml:"dispatcher,omitempty"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Profile holds the caller details used to prefill the request form.
// Both fields are optional - the form still validates whatever is submitted.
type Profile struct {
	Name  string `yaml:"name,omitempty"`  // Caller's full name
	Phone string `yaml:"phone,omitempty"` // Callback phone number
}

// Dispatcher holds dispatch service settings.
type Dispatcher struct {
	// Endpoint is the dispatch service base URL. When empty, submissions
	// use the simulated transport (no real backend exists yet).
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	// FallbackPhone is the number shown when submission fails and the user
	// must call emergency services directly
	FallbackPhone string `yaml:"fallback_phone"`

	// LocateTimeout is the geolocation lookup timeout in seconds
	LocateTimeout int `yaml:"locate_timeout"`

	// GeolocationURL overrides the geolocation service endpoint
	GeolocationURL string `yaml:"geolocation_url,omitempty"`
}

// DefaultFallbackPhone is the EU-wide emergency number. Users in other
// regions override this in preferences.
const DefaultFallbackPhone = "112"

// DefaultLocateTimeout is the default geolocation lookup timeout in seconds
const DefaultLocateTimeout = 5

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:    1,
		Profile:    &Profile{},
		Dispatcher: &Dispatcher{},
		Preferences: &Preferences{
			FallbackPhone: DefaultFallbackPhone,
			LocateTimeout: DefaultLocateTimeout,
		},
	}
}

// FallbackPhone returns the configured fallback number, defaulting to
// DefaultFallbackPhone when preferences are missing or blank.
func (r *Registry) FallbackPhone() string {
	if r.Preferences == nil || r.Preferences.FallbackPhone == "" {
		return DefaultFallbackPhone
	}
	return r.Preferences.FallbackPhone
}

// DispatchEndpoint returns the configured dispatch endpoint, or "" when
// submissions should use the simulated transport.
func (r *Registry) DispatchEndpoint() string {
	if r.Dispatcher == nil {
		return ""
	}
	return r.Dispatcher.Endpoint
}

// SetProfile stores the caller profile used for form prefill.
func (r *Registry) SetProfile(name, phone string) {
	if r.Profile == nil {
		r.Profile = &Profile{}
	}
	r.Profile.Name = name
	r.Profile.Phone = phone
}
