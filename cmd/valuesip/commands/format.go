package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	for i, col := range columns {
		fmt.Printf("%-*s", widths[i], col)
		if i < len(columns)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// formatMoney formats an amount with thousands separators
// Example: 1234567.89 → "1,234,568"
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var out strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}

	if neg {
		return "-" + out.String()
	}
	return out.String()
}

// formatPct formats a percentage with sign
func formatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
