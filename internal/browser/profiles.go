package browser

import "fmt"

// BrowserType is the rendering engine family a profile runs on.
type BrowserType string

// Browser types
const (
	Chromium BrowserType = "chromium"
	Firefox  BrowserType = "firefox"
	WebKit   BrowserType = "webkit"
)

// Profile is a browser/device combination a scenario runs against. A zero
// Viewport means the session's configured desktop viewport.
type Profile struct {
	Name              string
	Browser           BrowserType
	Viewport          Size
	UserAgent         string
	DeviceScaleFactor float64
	IsMobile          bool
	HasTouch          bool
}

var profiles = map[string]Profile{
	"chromium": {Name: "chromium", Browser: Chromium},
	"firefox":  {Name: "firefox", Browser: Firefox},
	"webkit":   {Name: "webkit", Browser: WebKit},
	"Mobile Chrome": {
		Name:              "Mobile Chrome",
		Browser:           Chromium,
		Viewport:          Size{Width: 393, Height: 727},
		UserAgent:         "Mozilla/5.0 (Linux; Android 11; Pixel 5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.6778.33 Mobile Safari/537.36",
		DeviceScaleFactor: 2.75,
		IsMobile:          true,
		HasTouch:          true,
	},
	"Mobile Safari": {
		Name:              "Mobile Safari",
		Browser:           WebKit,
		Viewport:          Size{Width: 390, Height: 664},
		UserAgent:         "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1",
		DeviceScaleFactor: 3,
		IsMobile:          true,
		HasTouch:          true,
	},
}

// LookupProfile returns the named profile.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

// Profiles resolves names in order.
func Profiles(names []string) ([]Profile, error) {
	out := make([]Profile, 0, len(names))
	for _, name := range names {
		p, err := LookupProfile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// BrowserTypes returns the distinct browser types needed by ps.
func BrowserTypes(ps []Profile) []BrowserType {
	seen := make(map[BrowserType]bool)
	var out []BrowserType
	for _, p := range ps {
		if !seen[p.Browser] {
			seen[p.Browser] = true
			out = append(out, p.Browser)
		}
	}
	return out
}
