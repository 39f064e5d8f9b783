package dto

type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}
