package notifier

import (
	"fmt"
	"math"
	"strconv"
)

// RenderMessage builds the cycle's message body.
func RenderMessage(topic string, level float64, advisory string) string {
	return fmt.Sprintf("The air pollution is currently at %s levels, the current index level is %s. %s",
		topic, FormatLevel(level), advisory)
}

// FormatLevel rounds level to two decimals and trims trailing zeros.
func FormatLevel(level float64) string {
	return strconv.FormatFloat(math.Round(level*100)/100, 'f', -1, 64)
}
