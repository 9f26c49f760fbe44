package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGradePaymentBands(t *testing.T) {
	cases := []struct {
		rate int
		want string
	}{
		{100, "A"},
		{95, "A"},
		{91, "A"},
		{90, "B"},
		{75, "B"},
		{74, "C"},
		{50, "C"},
		{49, "D"},
		{0, "D"},
	}
	for _, tc := range cases {
		grade := GradePayment(tc.rate, false, false)
		require.Equal(t, tc.want, grade.Grade, "rate=%d", tc.rate)
		require.NotEmpty(t, grade.Description)
	}
}

func TestGradePaymentExcellentPayer(t *testing.T) {
	grade := GradePayment(95, false, false)
	require.Equal(t, "A", grade.Grade)
	require.Equal(t, "excellent payer (>90% on time)", grade.Description)
}

func TestGradePaymentFlagsOverrideRate(t *testing.T) {
	require.Equal(t, "F", GradePayment(100, true, false).Grade)
	require.Equal(t, "F", GradePayment(100, false, true).Grade)
	require.Equal(t, "habitual non-payer", GradePayment(0, true, true).Description)
}
