package api

// QueryRequest is the body of the /query endpoints.
type QueryRequest struct {
	Query    string `json:"query" validate:"required"`
	Category string `json:"category,omitempty"`
}

// QueryResponse is the result of a single retrieval run.
type QueryResponse struct {
	Query     string  `json:"query"`
	Method    string  `json:"method"`
	Context   string  `json:"context"`
	Response  string  `json:"response"`
	LatencyMS float64 `json:"latency_ms"`
}

// ComparisonResponse pairs both retrieval methods for the same query.
type ComparisonResponse struct {
	Query    string        `json:"query"`
	GraphRAG QueryResponse `json:"graphrag"`
	NaiveRAG QueryResponse `json:"naive_rag"`
}

// StatsResponse summarizes the loaded graph and the vector index.
type StatsResponse struct {
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	NodeTypes         map[string]int `json:"node_types"`
	EdgeTypes         map[string]int `json:"edge_types"`
	NaiveRAGDocuments int            `json:"naive_rag_documents"`
}

// ErrorResponse is the JSON body returned for all error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Preset is a canned query exposed for demo UIs.
type Preset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Query       string `json:"query"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
}

// Presets lists the built-in queries covering each retrieval intent.
var Presets = []Preset{
	{
		ID:          "churned_journeys",
		Name:        "Churned User Journeys",
		Query:       "What's the typical journey of churned users? What patterns lead to churn?",
		Description: "Analyzes journey patterns of users who churned",
	},
	{
		ID:          "pre_purchase_electronics",
		Name:        "Pre-Purchase Behavior (Electronics)",
		Query:       "Which products do users view before purchasing electronics? What's the typical path to conversion?",
		Category:    "Electronics",
		Description: "Examines browsing behavior before electronics purchases",
	},
	{
		ID:          "high_vs_low_ltv",
		Name:        "High-LTV vs Low-LTV Comparison",
		Query:       "How do high-LTV users browse differently from low-LTV users? What behaviors distinguish them?",
		Description: "Compares journey patterns between value segments",
	},
	{
		ID:          "fashion_exit",
		Name:        "Fashion Category Exit Analysis",
		Query:       "Why do users drop off after viewing fashion products? What are common exit patterns?",
		Category:    "Fashion",
		Description: "Analyzes drop-off points in fashion category journeys",
	},
	{
		ID:          "conversion_funnel",
		Name:        "Conversion Funnel Analysis",
		Query:       "What does the conversion funnel look like? Where do most users drop off in the purchase journey?",
		Description: "Examines the overall conversion funnel",
	},
}
