package domain

// Partition names a logical, independently searchable subset of the
// knowledge base. Friendly names may alias a different physical partition;
// the registry resolves aliases before connecting.
type Partition string

const (
	PartitionVisa             Partition = "visa"
	PartitionTax              Partition = "tax"
	PartitionLegal            Partition = "legal"
	PartitionRealEstate       Partition = "realestate"
	PartitionPricing          Partition = "pricing"
	PartitionKnowledge        Partition = "knowledge"
	PartitionKnowledgeUpdates Partition = "knowledge_updates"
	PartitionTaxUpdates       Partition = "tax_updates"
)

// DefaultPartition is returned by the router when no rule matches.
const DefaultPartition = PartitionKnowledge

func ValidPartition(p string) bool {
	switch Partition(p) {
	case PartitionVisa, PartitionTax, PartitionLegal, PartitionRealEstate,
		PartitionPricing, PartitionKnowledge, PartitionKnowledgeUpdates, PartitionTaxUpdates:
		return true
	}
	return false
}

// RoutingDecision is produced once per query and immutable afterwards.
type RoutingDecision struct {
	Primary    Partition   `json:"primary"`
	Fallbacks  []Partition `json:"fallbacks"`
	Confidence float64     `json:"confidence"`
	IsFastPath bool        `json:"is_fast_path"`
}
