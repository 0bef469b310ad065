package types

// Fragment is a unit of chunked document text with a stable id. Fragments are
// produced by the document chunker and owned by the index after an indexing
// run; they are never mutated once created.
type Fragment struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	TokenEstimate int    `json:"token_estimate"`
	SourcePath    string `json:"source_path,omitempty"`
}

// Entity is a deduplicated named concept in the knowledge graph. The ID is
// derived from the name by the graph on insert; callers leave it empty.
type Entity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EntityType  string `json:"entity_type"`
	Description string `json:"description"`
	// SourceFragmentIDs records which fragments mentioned this entity.
	// Treated as a set: MergeEntities keeps it deduplicated.
	SourceFragmentIDs []string `json:"source_fragment_ids"`
}

// Relationship is a typed edge between two entities. Direction is stored but
// traversal treats edges as symmetric. Endpoint existence is not validated;
// dangling edges are representable.
type Relationship struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	RelType     string  `json:"rel_type"`
	Description string  `json:"description"`
	Strength    float64 `json:"strength"`
}

// Community is a cluster of entity ids produced by label propagation. It is
// ephemeral: recomputed from the graph on demand, never persisted.
type Community []string

// Role identifies the author of a chat message.
type Role string

// Message is a single turn in a chat exchange with a generation backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenUsage reports token consumption for a single generation call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the result of a generation call.
type Response struct {
	Content      string      `json:"content"`
	Model        string      `json:"model,omitempty"`
	FinishReason string      `json:"finish_reason,omitempty"`
	TokensUsed   *TokenUsage `json:"tokens_used,omitempty"`
}
