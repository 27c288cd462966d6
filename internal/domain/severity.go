package domain

// Severity bounds for the 1-4 ordinal impact scale.
const (
	SeverityMin = 1
	SeverityMax = 4
)

// SeverityLevels returns all valid severity levels in ascending order.
// Aggregates report every level even when its count is zero.
func SeverityLevels() []int {
	levels := make([]int, 0, SeverityMax-SeverityMin+1)
	for s := SeverityMin; s <= SeverityMax; s++ {
		levels = append(levels, s)
	}
	return levels
}
