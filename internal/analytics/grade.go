package analytics

// PaymentGrade summarises a customer's payment reliability as a letter grade.
type PaymentGrade struct {
	Grade       string `json:"grade"`
	Description string `json:"description"`
}

// GradePayment maps an on-time payment rate and the disqualifying collection
// flags to a letter grade. The flags always override the rate-based grade.
func GradePayment(onTimeRate int, hasLitigation, hasBadDebt bool) PaymentGrade {
	if hasLitigation || hasBadDebt {
		return PaymentGrade{Grade: "F", Description: "habitual non-payer"}
	}
	switch {
	case onTimeRate > 90:
		return PaymentGrade{Grade: "A", Description: "excellent payer (>90% on time)"}
	case onTimeRate >= 75:
		return PaymentGrade{Grade: "B", Description: "reliable payer (75-90% on time)"}
	case onTimeRate >= 50:
		return PaymentGrade{Grade: "C", Description: "inconsistent payer (50-75% on time)"}
	default:
		return PaymentGrade{Grade: "D", Description: "poor payer (<50% on time)"}
	}
}
