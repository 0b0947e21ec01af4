package target

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/idna"
)

const (
	PairSeparator  = "|"
	FieldSeparator = ":"

	zonePrefix = "/hostedzone/"
)

// lookup maps domains the way resolvers do, but still allows the underscore
// and wildcard labels Route53 accepts.
var lookup = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.StrictDomainName(false),
	idna.VerifyDNSLength(true),
)

// Target is one record to keep in sync: a hosted zone and a domain inside it.
type Target struct {
	ZoneID string
	Domain string
}

func (t Target) String() string {
	return t.ZoneID + FieldSeparator + t.Domain
}

// Parse reads "zone:domain|zone:domain" into targets, in order. Malformed
// entries are logged and skipped.
func Parse(config string, logger log.FieldLogger) []Target {
	config = strings.TrimSpace(config)
	if config == "" {
		return nil
	}

	var targets []Target
	for _, pair := range strings.Split(config, PairSeparator) {
		t, err := parsePair(pair)
		if err != nil {
			logger.Warnf("Skipping invalid pair %q: %v", pair, err)
			continue
		}
		targets = append(targets, t)
	}

	return targets
}

func parsePair(pair string) (Target, error) {
	fields := strings.Split(strings.TrimSpace(pair), FieldSeparator)
	if len(fields) != 2 {
		return Target{}, fmt.Errorf("want zoneId%sdomain, got %d field(s)", FieldSeparator, len(fields))
	}

	zone := strings.TrimPrefix(strings.TrimSpace(fields[0]), zonePrefix)
	domain := strings.TrimSpace(fields[1])
	if zone == "" {
		return Target{}, fmt.Errorf("empty zone id")
	}
	if domain == "" {
		return Target{}, fmt.Errorf("empty domain")
	}

	ascii, err := toASCII(domain)
	if err != nil {
		return Target{}, err
	}

	return Target{ZoneID: zone, Domain: ascii}, nil
}

// toASCII converts domain to its lower case punycode form, keeping a
// trailing dot.
func toASCII(domain string) (string, error) {
	name, dot := strings.CutSuffix(domain, ".")
	ascii, err := lookup.ToASCII(name)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", domain, err)
	}
	if dot {
		ascii += "."
	}
	return ascii, nil
}
