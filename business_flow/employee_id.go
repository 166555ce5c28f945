package businessflow

import "strconv"

const (
	employeeIDPrefix = "EMP"
	employeeIDOffset = 10000
)

// FormatEmployeeID renders a sequence value as a human readable employee id.
// The number is not zero padded, so ids past EMP99999 no longer sort
// lexicographically in numeric order.
func FormatEmployeeID(seq int64) string {
	return employeeIDPrefix + strconv.FormatInt(employeeIDOffset+seq, 10)
}
