package domain

type VerdictStatus string

const (
	VerdictVerified          VerdictStatus = "verified"
	VerdictPartiallyVerified VerdictStatus = "partially_verified"
	VerdictUnverified        VerdictStatus = "unverified"
	VerdictHallucination     VerdictStatus = "hallucination"
)

func ValidVerdictStatus(s string) bool {
	switch VerdictStatus(s) {
	case VerdictVerified, VerdictPartiallyVerified, VerdictUnverified, VerdictHallucination:
		return true
	}
	return false
}

// VerificationVerdict is produced once per orchestration run and not
// persisted beyond the response.
type VerificationVerdict struct {
	Status            VerdictStatus `json:"status"`
	Score             float64       `json:"score"`
	Reasoning         string        `json:"reasoning,omitempty"`
	CorrectedAnswer   string        `json:"corrected_answer,omitempty"`
	UnsupportedClaims []string      `json:"unsupported_claims,omitempty"`
}

// Acceptable reports whether the verdict clears the validity threshold.
func (v VerificationVerdict) Acceptable(threshold float64) bool {
	return v.Score >= threshold
}
