package model

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	DeviceID string `json:"device_id"`
}

type AuditQuery struct {
	Action string
	UserID string
	Status string
	From   string
	To     string
	Page   int
	Limit  int
}
