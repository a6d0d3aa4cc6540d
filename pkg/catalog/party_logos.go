package catalog

import (
	"strings"

	"assembly-directory.backend/pkg/apiclient"
)

// DefaultPartyLogos maps party names to the logos bundled with the client
var DefaultPartyLogos = map[string]string{
	"Independent": "/assets/party-logos/independent.png",
}

// PartyLogos resolves a member's party logo. A stored partyLogoUrl always wins
// over the bundled table.
type PartyLogos struct {
	byName map[string]string
}

// NewPartyLogos builds a resolver from table; nil selects DefaultPartyLogos
func NewPartyLogos(table map[string]string) *PartyLogos {
	if table == nil {
		table = DefaultPartyLogos
	}
	byName := make(map[string]string, len(table))
	for name, ref := range table {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || strings.TrimSpace(ref) == "" {
			continue
		}
		byName[key] = strings.TrimSpace(ref)
	}
	return &PartyLogos{byName: byName}
}

// Resolve returns "" when neither a stored nor a bundled logo exists
func (p *PartyLogos) Resolve(m apiclient.Member) string {
	if ref := strings.TrimSpace(m.PartyLogoURL); ref != "" {
		return ref
	}
	return p.byName[strings.ToLower(strings.TrimSpace(m.PartyName))]
}
