// Package sanitize strips callback- and script-shaped data from untrusted
// scene content before it is attached to the live scene.
//
// Removal is structural: properties are matched by name against fixed deny
// lists and metadata is rebuilt from an allow list of value shapes. Nothing
// is ever rejected as a whole; a node that cannot be cleaned is stripped
// down instead. Every removal is logged as a warning.
package sanitize

import (
	"log/slog"
	"strings"

	"model-viewer/internal/scenegraph"
)

// Deny lists, matched by exact property name.
var (
	NodeDenyList     = []string{"onBeforeRender", "onAfterRender", "onBeforeCompile", "callback", "script", "eval", "innerHTML", "outerHTML"}
	MaterialDenyList = []string{"onBeforeCompile", "customProgramCacheKey", "onBeforeRender"}
	GeometryDenyList = []string{"onDispose", "callback"}
)

// Scopes reported in Removal.Scope.
const (
	ScopeNode     = "node"
	ScopeMaterial = "material"
	ScopeGeometry = "geometry"
	ScopeUniform  = "uniform"
	ScopeUserData = "userData"
)

// Removal records one property that was dropped.
type Removal struct {
	Scope    string
	Property string
	Path     string
}

// Report lists everything a run removed, in traversal order.
type Report struct {
	Nodes   int
	Removed []Removal
}

// Count returns how many removals happened in the given scope.
func (r Report) Count(scope string) int {
	n := 0
	for _, rm := range r.Removed {
		if rm.Scope == scope {
			n++
		}
	}
	return n
}

// Sanitizer cleans scene subtrees. The zero value is not usable; use New.
type Sanitizer struct {
	log *slog.Logger
}

// New returns a Sanitizer that reports removals to log. A nil log discards them.
func New(log *slog.Logger) *Sanitizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Sanitizer{log: log}
}

// Sanitize cleans root in place and returns it. Running it on clean input
// changes nothing.
func (s *Sanitizer) Sanitize(root *scenegraph.Node) *scenegraph.Node {
	s.Run(root)
	return root
}

// Run cleans root in place and returns what was removed.
func (s *Sanitizer) Run(root *scenegraph.Node) Report {
	var rep Report
	if root == nil {
		return rep
	}
	s.log.Debug("sanitizing subtree", "root", root.Name)
	s.node(root, root.Name, &rep)
	s.log.Debug("sanitization complete", "nodes", rep.Nodes, "removed", len(rep.Removed))
	return rep
}

func (s *Sanitizer) node(n *scenegraph.Node, path string, rep *Report) {
	rep.Nodes++
	s.strip(n, NodeDenyList, ScopeNode, path, rep)
	for _, m := range n.Materials {
		if m == nil {
			continue
		}
		s.strip(m, MaterialDenyList, ScopeMaterial, path, rep)
		if m.Uniforms != nil {
			kept, dropped := FilterUniforms(m.Uniforms)
			m.Uniforms = kept
			s.record(ScopeUniform, dropped, path, rep)
		}
	}
	if n.Geometry != nil {
		s.strip(n.Geometry, GeometryDenyList, ScopeGeometry, path, rep)
	}
	if n.UserData != nil {
		kept, dropped := FilterUserData(n.UserData)
		n.UserData = kept
		s.record(ScopeUserData, dropped, path, rep)
	}
	for _, c := range n.Children() {
		s.node(c, childPath(path, c.Name), rep)
	}
}

func (s *Sanitizer) strip(obj scenegraph.Attributed, deny []string, scope, path string, rep *Report) {
	s.record(scope, StripDenied(obj, deny), path, rep)
}

func (s *Sanitizer) record(scope string, props []string, path string, rep *Report) {
	for _, p := range props {
		s.log.Warn("removed potentially dangerous property", "scope", scope, "property", p, "path", path)
		rep.Removed = append(rep.Removed, Removal{Scope: scope, Property: p, Path: path})
	}
}

// StripDenied deletes every property of obj named in deny and returns the
// names that were present.
func StripDenied(obj scenegraph.Attributed, deny []string) []string {
	var removed []string
	for _, name := range deny {
		if obj.DeleteAttr(name) {
			removed = append(removed, name)
		}
	}
	return removed
}

func childPath(parent, name string) string {
	if name == "" {
		name = "?"
	}
	if parent == "" {
		return name
	}
	return strings.Join([]string{parent, name}, "/")
}
