package dto

type ChatRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// ChatWebhookPayload is what the chat automation receives.
type ChatWebhookPayload struct {
	UserEmail string `json:"user_email"`
	Message   string `json:"message"`
}

type ConfigStatusResponse struct {
	HasStoreURL        bool   `json:"hasStoreUrl"`
	HasStoreCredential bool   `json:"hasStoreCredential"`
	URLLength          int    `json:"urlLength"`
	CredentialLength   int    `json:"credentialLength"`
	Message            string `json:"message"`
}
