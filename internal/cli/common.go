package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kurusugawa-computer/annowork-cli/internal/reportio"
)

// ErrUsage marks command-line usage errors. main maps it to exit code 2,
// distinct from runtime failures.
var ErrUsage = errors.New("usage error")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

const fileScheme = "file://"

// resolveList expands a filter value list: a single "file://path" element
// is replaced by the non-blank lines of that file, anything else passes
// through unchanged. An empty input stays nil.
func resolveList(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) == 1 && strings.HasPrefix(values[0], fileScheme) {
		return readLines(strings.TrimPrefix(values[0], fileScheme))
	}
	return values, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// readJSONArg interprets an argument as a JSON literal, or as the contents
// of a file when prefixed with file://.
func readJSONArg(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, fileScheme) {
		return os.ReadFile(strings.TrimPrefix(arg, fileScheme))
	}
	return []byte(arg), nil
}

// emit writes rows to the output path in the selected format.
func emit(outputPath string, format reportio.Format, columns []string, rows []reportio.Row) error {
	w, err := reportio.Open(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if format == reportio.FormatJSON {
		return reportio.WriteJSON(w, rows)
	}
	return reportio.WriteCSV(w, columns, rows)
}

// outputFlags is the shared -o/-f pair.
type outputFlags struct {
	output string
	format string
}

func (o *outputFlags) parse() (reportio.Format, error) {
	f, err := reportio.ParseFormat(o.format)
	if err != nil {
		return "", usageErrorf("%v", err)
	}
	return f, nil
}
