package types

// Chat roles accepted from clients.
const (
	ChatRoleUser = "user"
	ChatRoleAI   = "ai"
)

// ChatMessage is one turn of a client-held conversation.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user ai"`
	Content string `json:"content"`
}

// RefineSectionRequest asks for a revision of one resume section.
// The server keeps no session; the caller echoes the full history.
type RefineSectionRequest struct {
	SectionType    string        `json:"sectionType" validate:"required"`
	SectionContent string        `json:"sectionContent"`
	ChatHistory    []ChatMessage `json:"chatHistory" validate:"dive"`
	UserMessage    string        `json:"userMessage" validate:"required"`
}

// Validate validates the RefineSectionRequest.
func (r *RefineSectionRequest) Validate() error {
	return validate.Struct(r)
}

// RefineSectionResponse returns the revision and the extended history.
type RefineSectionResponse struct {
	RevisedContent string        `json:"revisedContent"`
	ChatHistory    []ChatMessage `json:"chatHistory"`
}

// ChatRequest is the body of the streaming resume chat endpoint.
type ChatRequest struct {
	Messages      []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	ResumeContext *ResumeDraft  `json:"resumeContext,omitempty"`
}

// Validate validates the ChatRequest.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}
