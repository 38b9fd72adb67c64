package specgraph

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// CodeRefIssue is one reference that failed validation.
type CodeRefIssue struct {
	SpecID  string `json:"specId"`
	CodeRef string `json:"codeRef"`
	Reason  string `json:"reason"`
}

// CodeRefCheckResult is the aggregate health report over every code
// reference in a Feature set.
type CodeRefCheckResult struct {
	TotalRefs     int            `json:"totalRefs"`
	ValidRefs     int            `json:"validRefs"`
	InvalidRefs   int            `json:"invalidRefs"`
	HealthPercent float64        `json:"healthPercent"`
	InvalidItems  []CodeRefIssue `json:"invalidItems"`
}

// lineRangePattern matches L<start> or L<start>-L<end>, case-insensitive.
var lineRangePattern = regexp.MustCompile(`^[Ll](\d+)(?:-[Ll](\d+))?$`)

// CheckCodeRefs validates every codeRef carried by the Features and their
// Conditions against projectRoot. A reference is path#Lstart-Lend shaped:
// the path must resolve to an existing file under the root, and when a line
// range is present its start must not exceed the file's line count. The
// range end is parsed but never bounds-checked; that matches the long-
// standing behavior other consumers rely on. One bad reference never aborts
// the rest, and InvalidItems keeps input order.
func CheckCodeRefs(features []Feature, projectRoot string) *CodeRefCheckResult {
	result := &CodeRefCheckResult{InvalidItems: []CodeRefIssue{}}

	check := func(specID, ref string) {
		result.TotalRefs++
		if reason := checkRef(projectRoot, ref); reason != "" {
			result.InvalidRefs++
			result.InvalidItems = append(result.InvalidItems, CodeRefIssue{
				SpecID:  specID,
				CodeRef: ref,
				Reason:  reason,
			})
			return
		}
		result.ValidRefs++
	}

	for i := range features {
		f := &features[i]
		for _, ref := range f.CodeRefs {
			check(f.ID, ref)
		}
		for j := range f.Conditions {
			c := &f.Conditions[j]
			for _, ref := range c.CodeRefs {
				check(c.ID, ref)
			}
		}
	}

	if result.TotalRefs == 0 {
		result.HealthPercent = 100
		return result
	}
	ratio := float64(result.ValidRefs) / float64(result.TotalRefs)
	result.HealthPercent = math.Round(ratio*1000) / 10
	return result
}

// checkRef validates a single reference and returns the failure reason, or
// "" when the reference is valid.
func checkRef(projectRoot, ref string) string {
	pathPart, rangePart, hasRange := strings.Cut(ref, "#")

	cleaned := strings.TrimLeft(strings.ReplaceAll(pathPart, "\\", "/"), "/")
	if cleaned == "" {
		return "empty file path"
	}

	resolved := filepath.Join(projectRoot, filepath.FromSlash(cleaned))
	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "file does not exist"
	}

	if !hasRange || rangePart == "" {
		return ""
	}

	m := lineRangePattern.FindStringSubmatch(rangePart)
	if m == nil {
		return fmt.Sprintf("malformed line range %q", rangePart)
	}
	start, err := strconv.Atoi(m[1])
	if err != nil || start < 1 {
		return fmt.Sprintf("malformed line range %q", rangePart)
	}

	total, err := countLines(resolved)
	if err != nil {
		return fmt.Sprintf("cannot read file: %v", err)
	}
	if start > total {
		return fmt.Sprintf("line L%d exceeds file length (%d lines)", start, total)
	}
	return ""
}

// countLines counts the lines of a file the way an editor numbers them: a
// trailing fragment without a newline still counts as a line.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	lines := 0
	for {
		chunk, err := r.ReadString('\n')
		if len(chunk) > 0 {
			lines++
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
