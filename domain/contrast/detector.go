package contrast

import "regexp"

// rolePattern pairs a role with its column-suffix pattern. Order matters:
// the adjusted p-value suffix must be tried before the raw one, and each
// column binds to the first pattern that matches.
type rolePattern struct {
	role    string
	pattern *regexp.Regexp
}

var rolePatterns = []rolePattern{
	{"logFC", regexp.MustCompile(`(?i)^(.+?)_logFC$`)},
	{"AveExpr", regexp.MustCompile(`(?i)^(.+?)_AveExpr$`)},
	{"adjP", regexp.MustCompile(`(?i)^(.+?)_adj\.P\.Val$`)},
	{"P", regexp.MustCompile(`(?i)^(.+?)_P\.Value$`)},
}

// Detect scans ordered column names for the contrast naming convention and
// returns the valid contrasts in first-seen prefix order. A contrast is only
// registered when it has a logFC column and at least one p-value column.
// Suffixes match case-insensitively; the prefix keeps its original case.
func Detect(columnNames []string) Info {
	order := make([]string, 0)
	partial := make(map[string]Roles)

	for _, col := range columnNames {
		for _, rp := range rolePatterns {
			m := rp.pattern.FindStringSubmatch(col)
			if m == nil {
				continue
			}
			prefix := m[1]

			roles, seen := partial[prefix]
			if !seen {
				order = append(order, prefix)
			}
			switch rp.role {
			case "logFC":
				roles.LogFC = col
			case "AveExpr":
				roles.AveExpr = col
			case "adjP":
				roles.AdjP = col
			case "P":
				roles.P = col
			}
			partial[prefix] = roles
			break
		}
	}

	info := Info{Roles: make(map[string]Roles)}
	for _, prefix := range order {
		roles := partial[prefix]
		if roles.LogFC == "" || (roles.AdjP == "" && roles.P == "") {
			continue
		}
		info.IDs = append(info.IDs, prefix)
		info.Roles[prefix] = roles
	}
	return info
}
