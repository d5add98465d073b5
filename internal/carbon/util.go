package carbon

import "fmt"

// formatFloat formats a float for display.
// If the float is an integer, it is formatted as an integer.
// Otherwise, it is formatted with 2 decimal places.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}

// formatSmall formats quantities that are routinely far below 0.01.
func formatSmall(f float64) string {
	if f != 0 && f < 0.01 && f > -0.01 {
		return fmt.Sprintf("%.3g", f)
	}
	return formatFloat(f)
}
