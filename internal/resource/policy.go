package resource

type DeletePolicy string

const (
	HardDelete DeletePolicy = "hard"
	SoftDelete DeletePolicy = "soft"
)

// Entity names double as cache prefixes and audit resource types.
const (
	EntityAssets          = "assets"
	EntityITAMAssets      = "itam-assets"
	EntityTickets         = "helpdesk-tickets"
	EntityServiceRequests = "srm-requests"
	EntityChangeRequests  = "change-requests"
	EntityKBArticles      = "kb-articles"
	EntityITAMStats       = "itam-stats"
	EntityHelpdeskStats   = "helpdesk-stats"
	EntityAssetStats      = "asset-stats"
)

// Policies records, per entity, whether delete removes the row or only
// flags it. The split is a per-entity retention choice kept configurable.
type Policies map[string]DeletePolicy

func DefaultPolicies() Policies {
	return Policies{
		EntityAssets:          SoftDelete,
		EntityITAMAssets:      SoftDelete,
		EntityKBArticles:      SoftDelete,
		EntityTickets:         HardDelete,
		EntityServiceRequests: HardDelete,
		EntityChangeRequests:  HardDelete,
	}
}

// PoliciesFromConfig overlays configured values on the defaults. Values
// other than "hard" and "soft" are ignored.
func PoliciesFromConfig(cfg map[string]string) Policies {
	p := DefaultPolicies()
	for entity, v := range cfg {
		switch DeletePolicy(v) {
		case HardDelete, SoftDelete:
			p[entity] = DeletePolicy(v)
		}
	}
	return p
}

func (p Policies) For(entity string) DeletePolicy {
	if v, ok := p[entity]; ok {
		return v
	}
	return HardDelete
}
