// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model SignupRequest
type SignupRequest struct {
	// User's email address
	// required: true
	Email string `json:"email" example:"user@example.com"`
	// User's password
	// required: true
	Password string `json:"password" example:"MySecretPassword@123"`
	// ISO 639-1 code of the user's native language
	NativeLanguage string `json:"native_language" example:"en"`
	// ISO 639-1 code of the language being learned
	LearningLanguage string `json:"learning_language" example:"es"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// User's email address
	Email string `json:"email" example:"user@example.com"`
	// User's password
	Password string `json:"password" example:"MySecretPassword@123"`
}

// swagger:model AuthResponse
type AuthResponse struct {
	// Authentication session token, sent as a Bearer token on
	// subsequent requests.
	SessionToken string `json:"session_token" example:"sample_session_token"`
	// Message indicating successful operation
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model GenericResponse
type GenericResponse struct {
	// Message indicating the result of the operation
	Message string `json:"message"`
}

// swagger:model GetUserResponse
type GetUserResponse struct {
	// Unique identifier for the user
	AccountID string `json:"account_id" example:"acct_1234567890"`
	// Email address associated with the account
	Email string `json:"email" example:"user@example.com"`
	// Native language code
	NativeLanguage string `json:"native_language" example:"en"`
	// Learning language code
	LearningLanguage string `json:"learning_language" example:"es"`
	// Resolved subscription tier
	Tier string `json:"tier" example:"FREE"`
	// Resolved subscription status
	Status string `json:"status" example:"NONE"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"User retrieved successfully"`
}

// swagger:model DeleteAccountRequest
type DeleteAccountRequest struct {
	// User's password
	// required: true
	Password string `json:"password" example:"MySecretPassword@123"`
}

// swagger:model EntitlementResponse
type EntitlementResponse struct {
	// Subscription tier (FREE or PREMIUM)
	Tier string `json:"tier" example:"PREMIUM"`
	// Subscription lifecycle status
	Status string `json:"status" example:"ACTIVE"`
	// Expiry timestamp (null when not applicable)
	ExpiresAt *string `json:"expires_at" example:"2026-09-01T00:00:00Z"`
	// Whether the user holds a legacy grandfathered grant
	IsGrandfathered bool `json:"is_grandfathered" example:"false"`
	// End of the grandfathered grant (null when not grandfathered)
	GrandfatheredUntil *string `json:"grandfathered_until"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Entitlement retrieved successfully"`
}

// swagger:model QuotaItem
type QuotaItem struct {
	// Actions performed today
	Used int `json:"used" example:"3"`
	// Daily limit (-1 unlimited, 0 not available on this plan)
	DailyLimit int `json:"daily_limit" example:"10"`
	// Actions remaining today (-1 when unlimited)
	Remaining int `json:"remaining" example:"7"`
}

// swagger:model QuotaSummaryResponse
type QuotaSummaryResponse struct {
	// Resolved tier the limits apply to
	Tier string `json:"tier" example:"FREE"`
	// Per-action quota state
	Quotas map[string]QuotaItem `json:"quotas"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Quota summary retrieved successfully"`
}

// swagger:model QuotaExceededResponse
type QuotaExceededResponse struct {
	// Action that was denied
	ActionType string `json:"action_type" example:"translation"`
	// Remaining allowance today
	Remaining int `json:"remaining" example:"0"`
	// Daily limit for the caller's plan
	DailyLimit int `json:"daily_limit" example:"10"`
	// Message suitable for an upgrade prompt
	Message string `json:"message" example:"Daily limit reached"`
}

// swagger:model PlanLimits
type PlanLimits struct {
	// Plan name
	Name string `json:"name" example:"FREE"`
	// Daily limit per action type (-1 unlimited, 0 unavailable)
	DailyLimits map[string]int `json:"daily_limits"`
	// Whether this is the recommended plan
	Recommended bool `json:"recommended" example:"false"`
}

// swagger:model GetPlansResponse
type GetPlansResponse struct {
	// Message indicating successful retrieval
	Message string `json:"message" example:"Plans retrieved successfully"`
	// Available plans and their per-action limits
	Plans []PlanLimits `json:"plans"`
}

// swagger:model TranslateRequest
type TranslateRequest struct {
	// Text to translate
	// required: true
	Text string `json:"text" example:"Hello, how are you?"`
	// Source language code; empty for auto-detect
	SourceLanguage string `json:"source_language" example:"en"`
	// Target language code
	// required: true
	TargetLanguage string `json:"target_language" example:"es"`
}

// swagger:model TranslateResponse
type TranslateResponse struct {
	// Translated text
	TranslatedText string `json:"translated_text" example:"Hola, ¿cómo estás?"`
	// Source language used or detected
	SourceLanguage string `json:"source_language" example:"en"`
	// Target language
	TargetLanguage string `json:"target_language" example:"es"`
	// Message indicating successful translation
	Message string `json:"message" example:"Translation successful"`
}

// swagger:model DetectLanguageRequest
type DetectLanguageRequest struct {
	// Text whose language should be identified
	// required: true
	Text string `json:"text" example:"Bonjour tout le monde"`
}

// swagger:model DetectLanguageResponse
type DetectLanguageResponse struct {
	// Detected language code
	Language string `json:"language" example:"fr"`
	// Provider confidence (0-100)
	Confidence float64 `json:"confidence" example:"98.5"`
	// Message indicating successful detection
	Message string `json:"message" example:"Language detected successfully"`
}

// swagger:model AnalyzeTextRequest
type AnalyzeTextRequest struct {
	// Text to analyze
	// required: true
	Text string `json:"text" example:"El gato se sentó en la alfombra."`
	// Language of the text; defaults to the user's learning language
	Language string `json:"language" example:"es"`
}

// swagger:model AnalysisResponse
type AnalysisResponse struct {
	// Analysis produced by the language model, opaque text
	Analysis string `json:"analysis"`
	// Message indicating successful analysis
	Message string `json:"message" example:"Analysis successful"`
}

// swagger:model ConjugateRequest
type ConjugateRequest struct {
	// Verb to conjugate
	// required: true
	Verb string `json:"verb" example:"hablar"`
	// Language of the verb; defaults to the user's learning language
	Language string `json:"language" example:"es"`
}

// swagger:model ChatRequest
type ChatRequest struct {
	// Conversation so far, oldest first; roles are "user" and "assistant"
	// required: true
	Messages []ChatTurn `json:"messages"`
}

// swagger:model ChatTurn
type ChatTurn struct {
	// Turn role: "user" or "assistant"
	Role string `json:"role" example:"user"`
	// Turn content
	Content string `json:"content" example:"¿Cómo se dice 'library' en español?"`
}

// swagger:model ChatResponse
type ChatResponse struct {
	// Tutor's reply
	Reply string `json:"reply"`
	// Message indicating successful completion
	Message string `json:"message" example:"Chat message processed successfully"`
}

// swagger:model ProviderWebhookRequest
type ProviderWebhookRequest struct {
	// Provider's unique event id, the idempotency key
	// required: true
	EventID string `json:"event_id" example:"evt_1a2b3c4d"`
	// Provider event type
	// required: true
	EventType string `json:"event_type" example:"INITIAL_PURCHASE"`
	// Subscription period type; "TRIAL" marks trial purchases
	PeriodType string `json:"period_type" example:"NORMAL"`
	// Account id of the affected user
	// required: true
	AppUserID string `json:"app_user_id" example:"acct_1234567890"`
	// Store product identifier
	ProductID string `json:"product_id" example:"lingua_premium_monthly"`
	// Expiry of the purchased period, epoch milliseconds
	ExpirationAtMs int64 `json:"expiration_at_ms" example:"1756684800000"`
	// Store the purchase was made in
	Store string `json:"store" example:"APP_STORE"`
}

// swagger:model ProviderWebhookResponse
type ProviderWebhookResponse struct {
	// Whether the event mutated entitlement state
	Applied bool `json:"applied" example:"true"`
	// Message describing the outcome
	Message string `json:"message" example:"Event processed successfully"`
}
