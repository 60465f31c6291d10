// Package dialect names the XML namespaces of the source and target dialects
// and resolves namespace prefixes on etree elements.
package dialect

import (
	"strings"

	"github.com/beevik/etree"
)

// Namespace URIs.
const (
	BPMN = "http://www.omg.org/spec/BPMN/20100524/MODEL"

	DMN11 = "http://www.omg.org/spec/DMN/20151101/dmn.xsd"
	DMN12 = "http://www.omg.org/spec/DMN/20180521/MODEL/"
	DMN13 = "https://www.omg.org/spec/DMN/20191111/MODEL/"
	DMN14 = "https://www.omg.org/spec/DMN/20211108/MODEL/"

	// Camunda is the legacy BPMN extension namespace.
	Camunda = "http://camunda.org/schema/1.0/bpmn"
	// CamundaDMN is the legacy DMN extension namespace.
	CamundaDMN = "http://camunda.org/schema/1.0/dmn"

	// Zeebe is the target extension namespace.
	Zeebe = "http://camunda.org/schema/zeebe/1.0"
	// Modeler carries execution platform metadata.
	Modeler = "http://camunda.org/schema/modeler/1.0"

	XMLNS = "http://www.w3.org/2000/xmlns/"
)

// Conventional prefixes used when a declaration has to be added.
const (
	PrefixZeebe   = "zeebe"
	PrefixModeler = "modeler"
	PrefixCamunda = "camunda"
)

// ExecutionPlatform is the modeler:executionPlatform value of converted documents.
const ExecutionPlatform = "Camunda Cloud"

// IsDMN reports whether ns is one of the DMN model namespaces.
func IsDMN(ns string) bool {
	switch ns {
	case DMN11, DMN12, DMN13, DMN14:
		return true
	}
	return false
}

// IsModel reports whether ns is a process or decision model namespace.
func IsModel(ns string) bool {
	return ns == BPMN || IsDMN(ns)
}

// IsVendor reports whether ns is a legacy extension namespace.
func IsVendor(ns string) bool {
	return ns == Camunda || ns == CamundaDMN
}

// ShortName returns the conventional prefix for a known namespace, used in
// rule names and reports.
func ShortName(ns string) string {
	switch {
	case ns == BPMN:
		return "bpmn"
	case IsDMN(ns):
		return "dmn"
	case ns == Camunda, ns == CamundaDMN:
		return PrefixCamunda
	case ns == Zeebe:
		return PrefixZeebe
	case ns == Modeler:
		return PrefixModeler
	case ns == "":
		return ""
	}
	return ns
}

// ResolvePrefix returns the namespace bound to prefix in scope of el.
// The empty prefix resolves the default namespace.
func ResolvePrefix(el *etree.Element, prefix string) string {
	if prefix == "xml" {
		return "http://www.w3.org/XML/1998/namespace"
	}
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if prefix == "" && a.Space == "" && a.Key == "xmlns" {
				return a.Value
			}
			if prefix != "" && a.Space == "xmlns" && a.Key == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// PrefixFor returns a prefix bound to ns in scope of el. The boolean is false
// when no declaration is in scope. A default namespace yields "".
func PrefixFor(el *etree.Element, ns string) (string, bool) {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Value != ns {
				continue
			}
			if a.Space == "xmlns" {
				// the binding must not be shadowed further down
				if ResolvePrefix(el, a.Key) == ns {
					return a.Key, true
				}
			}
			if a.Space == "" && a.Key == "xmlns" && ResolvePrefix(el, "") == ns {
				return "", true
			}
		}
	}
	return "", false
}

// IsNamespaceDecl reports whether attr declares a namespace.
func IsNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

// Qualify joins a prefix and local name.
func Qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// SplitQualified splits "prefix:local".
func SplitQualified(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
