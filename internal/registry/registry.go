// Package registry maps logical knowledge-partition names to live handles
// on the vector-search backend, with alias resolution and lazy connection.
package registry

import (
	"sync"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

// Handle is a live, partition-scoped view of the vector backend.
type Handle struct {
	Partition domain.Partition
	Store     domain.DocumentStore
}

// Info is static partition metadata; serving it never touches the network.
type Info struct {
	Name       domain.Partition `json:"name"`
	Priority   int              `json:"priority"`
	ApproxDocs int              `json:"approx_docs"`
}

// aliases maps friendly names to physical partitions.
var aliases = map[string]domain.Partition{
	"visas":       domain.PartitionVisa,
	"immigration": domain.PartitionVisa,
	"taxes":       domain.PartitionTax,
	"vat":         domain.PartitionTax,
	"company":     domain.PartitionLegal,
	"corporate":   domain.PartitionLegal,
	"property":    domain.PartitionRealEstate,
	"prices":      domain.PartitionPricing,
	"kb":          domain.PartitionKnowledge,
	"kb_updates":  domain.PartitionKnowledgeUpdates,
}

// partitionInfo is maintained by hand; approximate counts are refreshed with
// the corpus, not per request.
var partitionInfo = map[domain.Partition]Info{
	domain.PartitionVisa:             {Name: domain.PartitionVisa, Priority: 1, ApproxDocs: 4200},
	domain.PartitionTax:              {Name: domain.PartitionTax, Priority: 1, ApproxDocs: 3100},
	domain.PartitionLegal:            {Name: domain.PartitionLegal, Priority: 1, ApproxDocs: 5600},
	domain.PartitionRealEstate:       {Name: domain.PartitionRealEstate, Priority: 2, ApproxDocs: 1800},
	domain.PartitionPricing:          {Name: domain.PartitionPricing, Priority: 1, ApproxDocs: 350},
	domain.PartitionKnowledge:        {Name: domain.PartitionKnowledge, Priority: 2, ApproxDocs: 9400},
	domain.PartitionKnowledgeUpdates: {Name: domain.PartitionKnowledgeUpdates, Priority: 1, ApproxDocs: 760},
	domain.PartitionTaxUpdates:       {Name: domain.PartitionTaxUpdates, Priority: 1, ApproxDocs: 240},
}

// ConnectFunc creates a partition-scoped store. It is injected so the
// registry stays independent of the concrete backend.
type ConnectFunc func(partition domain.Partition) (domain.DocumentStore, error)

// Registry caches handles by resolved partition name. Mutation is
// serialized internally; lookups are safe from many in-flight queries.
type Registry struct {
	mu      sync.RWMutex
	handles map[domain.Partition]*Handle
	connect ConnectFunc
	logger  *zap.Logger
}

func New(connect ConnectFunc, logger *zap.Logger) *Registry {
	return &Registry{
		handles: make(map[domain.Partition]*Handle),
		connect: connect,
		logger:  logger,
	}
}

// Resolve maps a friendly name to its physical partition. Unknown names
// resolve to themselves.
func Resolve(name string) domain.Partition {
	if p, ok := aliases[name]; ok {
		return p
	}
	return domain.Partition(name)
}

// Get returns the handle for a partition name, connecting lazily on first
// access. A connection failure is logged and returns nil, never an error.
func (r *Registry) Get(name string) *Handle {
	partition := Resolve(name)

	if !domain.ValidPartition(string(partition)) {
		r.logger.Warn("unknown partition requested", zap.String("partition", name))
		return nil
	}

	r.mu.RLock()
	h, ok := r.handles[partition]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if h, ok = r.handles[partition]; ok {
		return h
	}

	store, err := r.connect(partition)
	if err != nil {
		r.logger.Warn("partition connection failed",
			zap.String("partition", string(partition)),
			zap.Error(err))
		return nil
	}

	h = &Handle{Partition: partition, Store: store}
	r.handles[partition] = h
	return h
}

// List returns static metadata for every known partition.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(partitionInfo))
	for _, info := range partitionInfo {
		out = append(out, info)
	}
	return out
}

// Info returns static metadata for one partition, resolving aliases first.
func (r *Registry) Info(name string) (Info, bool) {
	info, ok := partitionInfo[Resolve(name)]
	return info, ok
}
