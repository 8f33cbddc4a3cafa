package health

import (
	"regexp"
	"strconv"
	"strings"
)

// recapLine matches one PLAY RECAP row, e.g.
//
//	snu185 : ok=3    changed=0    unreachable=0    failed=0    skipped=0
var recapLine = regexp.MustCompile(`(.*) : ok=(\d+) +changed=(\d+) +unreachable=(\d+) +failed=(\d+)`)

// Parse classifies every host that appears in a recap line of text.
// Unreachable takes precedence over failed; a host with neither is
// healthy. Lines that are not recap rows are ignored. A host reported
// more than once keeps its first classification.
func Parse(text string) Summary {
	summary := Empty()
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		m := recapLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}

		host := strings.TrimSpace(m[1])
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true

		unreachable, _ := strconv.Atoi(m[4])
		failed, _ := strconv.Atoi(m[5])

		switch {
		case unreachable > 0:
			summary.Unreachable = append(summary.Unreachable, host)
		case failed > 0:
			summary.Failed = append(summary.Failed, host)
		default:
			summary.Success = append(summary.Success, host)
		}
	}

	return summary
}
