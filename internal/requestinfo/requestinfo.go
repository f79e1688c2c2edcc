//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + geolocation, URL, and timestamp) for the
//  admin audit log.  These structs are inert: no database handles, no large
//  buffers, safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer           (UA parsing)
//  • github.com/oschwald/geoip2-golang  (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA holds the parsed user-agent properties surfaced in audit entries.
type UA struct {
	Raw     string // Entire User-Agent header
	Browser string // "Chrome", "Firefox", "Safari", …
	Version string // "124.0.6367"
	OS      string // "macOS", "Windows", "Android", "iOS", …
	Device  string // "Desktop", "Phone", "Tablet", "TV", …
	IsBot   bool   // True when the UA matches a crawler signature
}

// Geo holds IP-based geolocation hints.  Best-effort; empty when the
// GeoLite2 database is absent or has no match.
type Geo struct {
	IP         net.IP // Original client address (not the X-Forwarded-For chain)
	CountryISO string // "US", "CA", "FR", …
	City       string // "Chicago", "Paris", …
}

// RequestInfo is stored on the request context by Enrich.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	URL       *url.URL // Pointer copy, safe to dereference read-only
	Timestamp time.Time
}

//
//  -----------------------------
//  Package-level state
//  -----------------------------
//

// geoReader is a shared MaxMind handle.  Safe for concurrent reads, which
// is all we ever perform.  Nil when geo lookups are disabled.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2-City database at startup.  Call from main();
// a missing path leaves geo lookups disabled rather than failing boot.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil if
// the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(uaHeader string) UA {
	u := uasurfer.Parse(uaHeader)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}

	return UA{
		Raw:     uaHeader,
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version: versionString(u.Browser.Version),
		OS:      osName,
		Device:  deviceTypeToString(u.DeviceType),
		IsBot:   u.IsBot(),
	}
}

// versionString builds "major.minor.patch" and removes trailing ".0" runs.
func versionString(v uasurfer.Version) string {
	out := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
	for strings.HasSuffix(out, ".0") {
		out = strings.TrimSuffix(out, ".0")
	}
	if out == "" {
		return "0"
	}
	return out
}

// deviceTypeToString maps uasurfer.DeviceType to a user-friendly string.
func deviceTypeToString(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

// lookupGeo is a best-effort city lookup; nil reader or lookup failure
// yields an IP-only Geo.
func lookupGeo(ip net.IP) Geo {
	g := Geo{IP: ip}
	if geoReader == nil || ip == nil {
		return g
	}
	rec, err := geoReader.City(ip)
	if err != nil || rec == nil {
		return g
	}
	g.CountryISO = rec.Country.IsoCode
	g.City = rec.City.Names["en"]
	return g
}
