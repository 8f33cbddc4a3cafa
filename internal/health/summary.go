// Package health classifies hosts from an Ansible run into healthy,
// check-failed and unreachable sets.
package health

import "sort"

// UnknownAddress is shown for hosts missing from the reference table.
const UnknownAddress = "Unknown"

// Summary is the outcome of one collection run. The three lists are
// disjoint and hold host names in recap order.
type Summary struct {
	Success     []string `json:"success"`
	Failed      []string `json:"failed"`
	Unreachable []string `json:"unreachable"`
}

// Status is a host's classification within a Summary.
type Status string

const (
	StatusHealthy     Status = "healthy"
	StatusFailed      Status = "failed"
	StatusUnreachable Status = "unreachable"
)

// AddressBook resolves a host name to its network address.
type AddressBook interface {
	Address(name string) string
}

// Entry is a classified host enriched with its address.
type Entry struct {
	Name    string
	Address string
	Status  Status
}

// Empty returns a summary with all lists initialized and empty.
func Empty() Summary {
	return Summary{
		Success:     []string{},
		Failed:      []string{},
		Unreachable: []string{},
	}
}

// Normalize replaces nil lists with empty ones so the summary always
// serializes as three JSON arrays.
func (s Summary) Normalize() Summary {
	if s.Success == nil {
		s.Success = []string{}
	}
	if s.Failed == nil {
		s.Failed = []string{}
	}
	if s.Unreachable == nil {
		s.Unreachable = []string{}
	}
	return s
}

// IsEmpty reports whether no host was classified.
func (s Summary) IsEmpty() bool {
	return len(s.Success) == 0 && len(s.Failed) == 0 && len(s.Unreachable) == 0
}

// Hosts returns every classified host name, sorted.
func (s Summary) Hosts() []string {
	out := make([]string, 0, len(s.Success)+len(s.Failed)+len(s.Unreachable))
	out = append(out, s.Success...)
	out = append(out, s.Failed...)
	out = append(out, s.Unreachable...)
	sort.Strings(out)
	return out
}

// Missing returns the names in expected that the summary did not classify, sorted.
func (s Summary) Missing(expected []string) []string {
	seen := make(map[string]bool, len(s.Success)+len(s.Failed)+len(s.Unreachable))
	for _, h := range s.Hosts() {
		seen[h] = true
	}

	var missing []string
	for _, name := range expected {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Describe enriches every classified host with its address. Hosts the
// address book does not know are marked UnknownAddress. Entries are
// ordered unreachable, failed, healthy.
func (s Summary) Describe(book AddressBook) []Entry {
	entries := make([]Entry, 0, len(s.Success)+len(s.Failed)+len(s.Unreachable))
	add := func(names []string, status Status) {
		for _, name := range names {
			addr := UnknownAddress
			if book != nil {
				if a := book.Address(name); a != "" {
					addr = a
				}
			}
			entries = append(entries, Entry{Name: name, Address: addr, Status: status})
		}
	}
	add(s.Unreachable, StatusUnreachable)
	add(s.Failed, StatusFailed)
	add(s.Success, StatusHealthy)
	return entries
}
