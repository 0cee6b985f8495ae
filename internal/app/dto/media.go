package dto

// UploadResult lists stored image URLs plus per-file rejection messages.
type UploadResult struct {
	URLs     []string `json:"urls"`
	Warnings []string `json:"warnings,omitempty"`
}

// Mutation acknowledges a write.
type Mutation struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
