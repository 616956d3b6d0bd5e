package model

// Chunk is one retrievable piece of an ingested document.
type Chunk struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type RegisterRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// UserOut is the public view of a user record: no password hash.
type UserOut struct {
	ID          int    `json:"id"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ChatRequest struct {
	UserID   int    `json:"user_id"`
	Question string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}
