package analytics

import (
	"time"

	"github.com/debtwatch/debtwatch/internal/receivables"
	"github.com/debtwatch/debtwatch/internal/shared"
)

// BucketLabel names a fixed aging bucket.
type BucketLabel string

const (
	BucketCurrent BucketLabel = "CURRENT"
	Bucket1To30   BucketLabel = "1-30"
	Bucket31To60  BucketLabel = "31-60"
	Bucket61To90  BucketLabel = "61-90"
	Bucket91Plus  BucketLabel = "91+"
)

// BucketOrder fixes the reporting order of the aging buckets.
var BucketOrder = []BucketLabel{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, Bucket91Plus}

// AgingBucket summarises outstanding amounts inside one aging range.
type AgingBucket struct {
	Label  BucketLabel `json:"label"`
	Amount float64     `json:"amount"`
	Count  int         `json:"count"`
}

// CustomerAging is the per-customer aging rollup. Bucket is the single
// customer-level bucket driven by the oldest outstanding invoice, distinct
// from the per-bucket breakdown.
type CustomerAging struct {
	Buckets          []AgingBucket `json:"buckets"`
	TotalOutstanding float64       `json:"total_outstanding"`
	MaxDaysOverdue   int           `json:"max_days_overdue"`
	Bucket           BucketLabel   `json:"bucket"`
}

// bucketFor assigns a days-overdue count to its aging bucket using the same
// boundaries as the overdue categories, collapsed to five ranges.
func bucketFor(daysOverdue int) BucketLabel {
	switch {
	case daysOverdue <= 0:
		return BucketCurrent
	case daysOverdue <= 30:
		return Bucket1To30
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	default:
		return Bucket91Plus
	}
}

// AgingBuckets rolls the outstanding amounts of a set of invoices into the
// five fixed buckets. All five labels are always present in fixed order,
// zero-valued when empty, so chart and report consumers never branch on
// bucket presence.
func AgingBuckets(invoices []receivables.Invoice, asOf time.Time) []AgingBucket {
	amounts := make(map[BucketLabel]float64, len(BucketOrder))
	counts := make(map[BucketLabel]int, len(BucketOrder))

	for _, inv := range invoices {
		if inv.Settled() {
			continue
		}
		label := bucketFor(DaysOverdue(inv.DueDate, asOf))
		amounts[label] += inv.Outstanding()
		counts[label]++
	}

	buckets := make([]AgingBucket, 0, len(BucketOrder))
	for _, label := range BucketOrder {
		buckets = append(buckets, AgingBucket{
			Label:  label,
			Amount: shared.Round2(amounts[label]),
			Count:  counts[label],
		})
	}
	return buckets
}

// AgingOfCustomer computes the bucket breakdown for one customer's invoices
// plus the oldest-debt-driven customer-level bucket.
func AgingOfCustomer(invoices []receivables.Invoice, asOf time.Time) CustomerAging {
	aging := CustomerAging{
		Buckets: AgingBuckets(invoices, asOf),
		Bucket:  BucketCurrent,
	}

	var total float64
	maxDays := 0
	hasOutstanding := false
	for _, inv := range invoices {
		if inv.Settled() {
			continue
		}
		total += inv.Outstanding()
		days := DaysOverdue(inv.DueDate, asOf)
		if !hasOutstanding || days > maxDays {
			maxDays = days
		}
		hasOutstanding = true
	}

	if hasOutstanding {
		aging.MaxDaysOverdue = maxDays
		aging.Bucket = bucketFor(maxDays)
	}
	aging.TotalOutstanding = shared.Round2(total)
	return aging
}
