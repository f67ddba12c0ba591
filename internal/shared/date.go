package shared

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// ChartDateLayout is the only accepted input format for chart dates.
const ChartDateLayout = "2006-01-02"

// ParseChartDate validates a YYYY-MM-DD date string and returns it unchanged.
//
// The returned value is always the trimmed input, never a reformatted date,
// so the string can be interpolated into chart URLs and playlist names as-is.
func ParseChartDate(input string) (string, error) {
	date := strings.TrimSpace(input)
	if _, err := time.Parse(ChartDateLayout, date); err != nil {
		return "", fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", ErrInvalidDate, date)
	}
	return date, nil
}

// PromptDate asks for a chart date on w and reads lines from r until one
// parses as a valid YYYY-MM-DD date.
//
// The loop is deliberately unbounded: invalid input re-prompts forever. A
// reader that never produces a valid date never returns, which mirrors the
// interactive contract (the user can always ^C). Implemented iteratively so
// adversarial input cannot grow the stack. Reader exhaustion (EOF, closed
// pipe) is the only exit without a valid date.
func PromptDate(r io.Reader, w io.Writer) (string, error) {
	scanner := bufio.NewScanner(r)

	for {
		fmt.Fprint(w, "Which date do you want to travel to? (YYYY-MM-DD)\n> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("%w: reading date: %v", ErrInvalidInput, err)
			}
			return "", fmt.Errorf("%w: no date provided", ErrInvalidInput)
		}

		date, err := ParseChartDate(scanner.Text())
		if err != nil {
			fmt.Fprintf(w, "ERROR: %v\n", err)
			continue
		}

		return date, nil
	}
}
