package domain

// UserProfile is the slowly changing configuration the engines evaluate
// against. Callers resolve it once per request.
type UserProfile struct {
	WeightKg  float64 `json:"weight_kg"`
	HeightCm  float64 `json:"height_cm"`
	Age       int     `json:"age"`
	IsFasting bool    `json:"is_fasting"`
}
