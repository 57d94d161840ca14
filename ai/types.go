package ai

// EntityTypes lists the categories the enrichment prompt suggests for
// extracted entities. The type field stays free-form; models may emit
// categories outside this list.
var EntityTypes = []string{
	"person",
	"company",
	"organization",
	"project",
	"product",
	"technology",
	"place",
	"date",
	"amount",
	"document",
}
