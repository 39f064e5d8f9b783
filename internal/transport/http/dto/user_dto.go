package dto

type MyInfoResponse struct {
	ID      int64    `json:"id"`
	LoginID string   `json:"loginId"`
	Name    string   `json:"name"`
	Height  *float64 `json:"height"`
	Weight  *float64 `json:"weight"`
}

type UpdateMyInfoRequest struct {
	Name     *string  `json:"name"`
	Password *string  `json:"password"`
	Height   *float64 `json:"height"`
	Weight   *float64 `json:"weight"`
}
