package dto

// CreateChatRequest is the body for POST /createchat.
type CreateChatRequest struct {
	Users []string `json:"users"`
}

// CreateChatResponse is the success response for POST /createchat.
type CreateChatResponse struct {
	Success     string `json:"success"`
	ChatAddress string `json:"chat_address"`
	MemberCount int    `json:"member_count"`
}
