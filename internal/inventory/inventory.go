// Package inventory holds the static host reference table: address,
// physical location and responsible owner for every monitored host.
// Lookups never fail; unknown hosts map to sentinel values.
package inventory

import (
	"fmt"
	"os"
	"sort"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"gopkg.in/yaml.v3"
)

// Sentinels returned for hosts missing from the table.
const (
	UnknownAddress  = "Unknown"
	UnknownLocation = "기타"
	UnknownOwner    = "-"
)

// Host is one entry of the reference table.
type Host struct {
	Address  string `yaml:"address"`
	Location string `yaml:"location"`
	Owner    string `yaml:"owner"`
}

// Inventory is the host reference table.
type Inventory struct {
	hosts     map[string]Host
	locations []string
}

// file is the on-disk layout of hosts.yaml.
type file struct {
	Locations []string        `yaml:"locations"`
	Hosts     map[string]Host `yaml:"hosts"`
}

// New builds an inventory from hosts. locations fixes the display order
// of locations; any location used by a host but not listed is appended
// in sorted order.
func New(hosts map[string]Host, locations []string) *Inventory {
	copied := make(map[string]Host, len(hosts))
	for name, h := range hosts {
		copied[name] = h
	}
	return &Inventory{hosts: copied, locations: orderLocations(copied, locations)}
}

// Load reads a hosts.yaml file:
//
//	locations: [신양, 뉴미연]
//	hosts:
//	  snu185: {address: 147.46.92.185, location: 신양, owner: 공용}
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read hosts file "+path,
			"Check hosts_file in the config, or remove it to use the built-in table")
	}
	return Parse(data)
}

// Parse decodes hosts.yaml content.
func Parse(data []byte) (*Inventory, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid hosts file",
			"Check the YAML syntax of the hosts file")
	}

	for name, h := range f.Hosts {
		if name == "" {
			return nil, errors.New(errors.ErrConfig,
				"Hosts file has an entry with an empty name",
				"Every host needs a name")
		}
		if h.Address == "" {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Host '%s' has no address", name),
				"Add an address for it in the hosts file")
		}
	}

	return New(f.Hosts, f.Locations), nil
}

// Address returns the host's network address, or UnknownAddress.
func (inv *Inventory) Address(name string) string {
	if h, ok := inv.hosts[name]; ok && h.Address != "" {
		return h.Address
	}
	return UnknownAddress
}

// Location returns the host's physical location, or UnknownLocation.
func (inv *Inventory) Location(name string) string {
	if h, ok := inv.hosts[name]; ok && h.Location != "" {
		return h.Location
	}
	return UnknownLocation
}

// Owner returns who is responsible for the host, or UnknownOwner.
func (inv *Inventory) Owner(name string) string {
	if h, ok := inv.hosts[name]; ok && h.Owner != "" {
		return h.Owner
	}
	return UnknownOwner
}

// Has reports whether name is in the table.
func (inv *Inventory) Has(name string) bool {
	_, ok := inv.hosts[name]
	return ok
}

// Names returns all host names, sorted.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.hosts))
	for name := range inv.hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Locations returns the display order of locations, always ending with
// UnknownLocation.
func (inv *Inventory) Locations() []string {
	out := make([]string, len(inv.locations))
	copy(out, inv.locations)
	return out
}

// ByLocation groups host names by location, names sorted within each group.
func (inv *Inventory) ByLocation() map[string][]string {
	groups := make(map[string][]string)
	for _, name := range inv.Names() {
		loc := inv.Location(name)
		groups[loc] = append(groups[loc], name)
	}
	return groups
}

func orderLocations(hosts map[string]Host, preferred []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, loc := range preferred {
		if loc == "" || loc == UnknownLocation || seen[loc] {
			continue
		}
		seen[loc] = true
		out = append(out, loc)
	}

	var extra []string
	for _, h := range hosts {
		if h.Location == "" || h.Location == UnknownLocation || seen[h.Location] {
			continue
		}
		seen[h.Location] = true
		extra = append(extra, h.Location)
	}
	sort.Strings(extra)

	out = append(out, extra...)
	return append(out, UnknownLocation)
}
