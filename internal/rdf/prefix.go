package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// PrefixMap tracks namespace prefix bindings declared by a document.
type PrefixMap struct {
	bindings map[string]string
}

// NewPrefixMap returns a map preloaded with the well-known bindings.
func NewPrefixMap() *PrefixMap {
	return &PrefixMap{
		bindings: map[string]string{
			"rdf":  RDFNamespace,
			"rdfs": RDFSNamespace,
			"owl":  OWLNamespace,
			"xsd":  XSDNamespace,
		},
	}
}

func (pm *PrefixMap) Bind(prefix, namespace string) {
	pm.bindings[prefix] = namespace
}

func (pm *PrefixMap) Lookup(prefix string) (string, bool) {
	ns, ok := pm.bindings[prefix]
	return ns, ok
}

// Expand resolves a prefixed name like "owl:Class" to a full IRI.
func (pm *PrefixMap) Expand(pname string) (string, error) {
	idx := strings.Index(pname, ":")
	if idx < 0 {
		return "", fmt.Errorf("not a prefixed name: %q", pname)
	}

	prefix := pname[:idx]
	local := pname[idx+1:]

	ns, ok := pm.bindings[prefix]
	if !ok {
		return "", fmt.Errorf("undeclared prefix: %q", prefix)
	}

	return ns + local, nil
}

// Compact shortens an IRI using the longest matching binding, for display.
func (pm *PrefixMap) Compact(iri string) string {
	bestPrefix := ""
	bestNS := ""

	for prefix, ns := range pm.bindings {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			bestPrefix = prefix
			bestNS = ns
		}
	}

	if bestNS == "" {
		return iri
	}
	return bestPrefix + ":" + iri[len(bestNS):]
}

// Prefixes returns the declared prefixes in sorted order.
func (pm *PrefixMap) Prefixes() []string {
	out := make([]string, 0, len(pm.bindings))
	for p := range pm.bindings {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
