package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/reglet-dev/recast/internal/domain/conversion"
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/source"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// walker holds the state of one conversion.
type walker struct {
	registry *rules.Registry
	settings *rules.Settings
	logger   *slog.Logger
	agg      *diagnostics.Aggregator

	root     *source.Element
	owners   map[int]*owned
	removals []removal
	attrs    []attrRemoval
	// pinned elements have a kept descendant and cannot be removed.
	pinned map[int]bool
	// nodes maps mutation origins back to the visited node.
	nodes   map[string]*rules.Context
	faulted map[string]bool
}

type owned struct {
	el *source.Element
	c  convertible.Convertible
}

type removal struct {
	owner   *source.Element // nil means the document element
	ordinal int
}

type attrRemoval struct {
	owner   *source.Element
	element int
	key     string
	node    string
}

// outcome of running one rule on one node.
type outcome int

const (
	notApplicable outcome = iota
	gated
	faulted
	applied
)

func newWalker(registry *rules.Registry, settings *rules.Settings, logger *slog.Logger, keys values.KeyGenerator) *walker {
	return &walker{
		registry: registry,
		settings: settings,
		logger:   logger,
		agg:      diagnostics.NewAggregator(keys),
		owners:   make(map[int]*owned),
		pinned:   make(map[int]bool),
		nodes:    make(map[string]*rules.Context),
		faulted:  make(map[string]bool),
	}
}

// walk visits el, then its attributes in document order, then its
// children.
func (w *walker) walk(el *source.Element) {
	if w.root == nil {
		w.root = el
	}
	w.agg.Visit(el.Path())
	owner, kind := rules.OwnerOf(el)

	descend := w.visit(&rules.Context{
		Node:     rules.NodeElement,
		Element:  el,
		Owner:    owner,
		Kind:     kind,
		Settings: w.settings,
	})

	if dialect.IsModel(el.Space()) {
		for _, attr := range el.Attrs() {
			w.visit(&rules.Context{
				Node:     rules.NodeAttribute,
				Element:  el,
				Attr:     attr,
				Owner:    owner,
				Kind:     kind,
				Settings: w.settings,
			})
		}
	}

	if descend {
		for _, child := range el.Children() {
			w.walk(child)
		}
	}
}

// visit runs the matching rules of a node and reports whether the walker
// should descend into it.
func (w *walker) visit(ctx *rules.Context) bool {
	matched := w.registry.Match(ctx)
	var (
		ran     bool
		keep    bool
		subtree bool
	)
	run := func(rule *rules.Rule) {
		result, retain := w.run(rule, ctx)
		switch result {
		case notApplicable:
			return
		case gated, faulted:
			keep = true
		case applied:
			ran = true
			keep = keep || retain
		}
		subtree = subtree || rule.Subtree
	}
	for _, rule := range matched {
		run(rule)
	}
	// every exact rule declined: the namespace fallback takes the node
	if !ran && !keep && len(matched) > 0 && !matched[0].Fallback {
		if fb, ok := w.registry.Fallback(ctx); ok {
			run(fb)
		}
	}

	if dialect.IsVendor(ctx.Space()) {
		switch {
		case ran && !keep:
			w.remove(ctx)
		case ctx.Node == rules.NodeElement:
			w.pin(ctx.Element)
		}
	}
	return !subtree
}

// run gates and applies one rule. The second result reports whether the
// rule keeps the node.
func (w *walker) run(rule *rules.Rule, ctx *rules.Context) (outcome, bool) {
	if !rule.Supported(w.settings.Target) {
		w.record(ctx, rule, rules.Warning(rules.CodeUnsupportedVersion,
			"%s is not supported in target version %s, requires %s.",
			ctx.NodeName(), w.settings.Target.Short(), rule.MinVersion.Short()))
		return gated, true
	}
	if rule.When != nil {
		if ok, _ := rule.When.IsSatisfiedBy(ctx); !ok {
			return notApplicable, false
		}
	}

	out, err := w.invoke(rule, ctx)
	if err != nil {
		w.logger.Warn("rule fault", "rule", rule.Name, "path", ctx.Element.Path().String(), "error", err)
		w.record(ctx, rule, rules.Message(values.SevError, rules.CodeRuleFault, "%s", err.Error()))
		return faulted, true
	}

	msg := out.Message
	if msg == nil && !rule.Silent {
		msg = rules.Info(rules.CodeConverted, "%s converted.", ctx.NodeName())
	}
	if msg != nil {
		w.record(ctx, rule, msg)
	}
	return applied, rule.Retain || out.Keep
}

// invoke applies the rule and enqueues its mutation. Errors and panics,
// including mutations of unsupported facets, become a *rules.RuleFault.
func (w *walker) invoke(rule *rules.Rule, ctx *rules.Context) (out rules.Outcome, err error) {
	fault := func(cause error, panicked bool) error {
		return &rules.RuleFault{
			Rule:  rule.Name,
			Path:  ctx.Element.Path(),
			Node:  ctx.NodeName(),
			Cause: cause,
			Panic: panicked,
		}
	}
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			out, err = rules.Outcome{}, fault(cause, true)
		}
	}()

	out, err = rule.Apply(ctx)
	if err != nil {
		return rules.Outcome{}, fault(err, false)
	}
	if !out.Mutation.IsZero() {
		owner := ctx.Owner
		if out.Owner != nil {
			owner = out.Owner
		}
		node := nodeKey(ctx)
		w.nodes[node] = ctx
		convertible.Enqueue(w.convertible(owner), out.Mutation.From(convertible.Origin{Rule: rule.Name, Node: node}))
	}
	return out, nil
}

func (w *walker) record(ctx *rules.Context, rule *rules.Rule, msg *diagnostics.Message) {
	w.agg.Add(w.message(ctx, rule.Name, msg))
}

func (w *walker) message(ctx *rules.Context, rule string, msg *diagnostics.Message) diagnostics.Message {
	m := *msg
	m.Path = ctx.Element.Path()
	m.Rule = rule
	if ctx.Attr != nil {
		m.Attribute = ctx.Attr.FullKey()
	}
	return m
}

// nodeKey identifies a visited element or attribute within one document.
func nodeKey(ctx *rules.Context) string {
	key := ctx.Element.Path().String()
	if ctx.Attr != nil {
		key += "/@" + ctx.Attr.FullKey()
	}
	return key
}

// mutationFault replaces the message of a rule whose deferred mutation
// panicked with an error naming the rule, and keeps the node.
func (w *walker) mutationFault(f convertible.Fault) {
	ctx, ok := w.nodes[f.Origin.Node]
	if !ok {
		return
	}
	fault := &rules.RuleFault{
		Rule:  f.Origin.Rule,
		Path:  ctx.Element.Path(),
		Node:  ctx.NodeName(),
		Cause: f.Cause,
		Panic: true,
	}
	w.logger.Warn("rule fault", "rule", fault.Rule, "path", fault.Path.String(), "error", f.Cause)

	msg := w.message(ctx, f.Origin.Rule, rules.Message(values.SevError, rules.CodeRuleFault, "%s", fault.Error()))
	w.agg.Replace(msg, func(m diagnostics.Message) bool {
		return m.Rule == msg.Rule && m.Attribute == msg.Attribute
	})

	w.faulted[f.Origin.Node] = true
	if ctx.Node == rules.NodeElement && dialect.IsVendor(ctx.Space()) {
		w.pin(ctx.Element)
	}
}

// convertible returns the convertible of owner, creating it on first use.
func (w *walker) convertible(owner *source.Element) convertible.Convertible {
	if owner == nil {
		owner = w.root
	}
	if o, ok := w.owners[owner.Ordinal()]; ok {
		return o.c
	}
	kind := convertible.KindOf(owner.Space(), owner.Local())
	o := &owned{el: owner, c: kind.New()}
	w.owners[owner.Ordinal()] = o
	return o.c
}

// remove marks a converted legacy node for removal. Attributes are removed
// right away; elements only once the walk has shown none of their
// descendants is kept.
func (w *walker) remove(ctx *rules.Context) {
	if ctx.Attr != nil {
		w.attrs = append(w.attrs, attrRemoval{
			owner:   ctx.Owner,
			element: ctx.Element.Ordinal(),
			key:     ctx.Attr.FullKey(),
			node:    nodeKey(ctx),
		})
		return
	}
	w.removals = append(w.removals, removal{owner: ctx.Owner, ordinal: ctx.Element.Ordinal()})
}

func (w *walker) pin(el *source.Element) {
	for cur := el; cur != nil && !w.pinned[cur.Ordinal()]; cur = cur.Parent() {
		w.pinned[cur.Ordinal()] = true
	}
}

// emit applies every convertible in document order, then schedules the
// removals of converted legacy nodes whose rules did not fault, and writes
// the target document.
func (w *walker) emit(src *source.Document) ([]byte, error) {
	for _, ordinal := range w.ordinals() {
		for _, f := range convertible.Apply(w.owners[ordinal].c) {
			w.mutationFault(f)
		}
	}

	for _, r := range w.attrs {
		if !w.faulted[r.node] {
			w.convertible(r.owner).Base().RemoveAttr(r.element, r.key)
		}
	}
	for _, r := range w.removals {
		if !w.pinned[r.ordinal] {
			w.convertible(r.owner).Base().RemoveElement(r.ordinal)
		}
	}

	tree, index := src.Mirror()
	doc := conversion.NewDocument(tree, index)
	for _, ordinal := range w.ordinals() {
		o := w.owners[ordinal]
		if err := emitOne(doc, o); err != nil {
			w.logger.Warn("emission failed", "path", o.el.Path().String(), "error", err)
			w.agg.Add(diagnostics.Message{
				Severity: values.SevError,
				Code:     rules.CodeRuleFault,
				Path:     o.el.Path(),
				Text:     fmt.Sprintf("Writing %s failed: %v", o.c.Kind(), err),
			})
		}
	}
	doc.Finalize()
	return doc.Bytes()
}

func (w *walker) ordinals() []int {
	ordinals := make([]int, 0, len(w.owners))
	for ordinal := range w.owners {
		ordinals = append(ordinals, ordinal)
	}
	sort.Ints(ordinals)
	return ordinals
}

// emitOne writes one convertible. Convertibles first created for removals
// are applied here.
func emitOne(doc *conversion.Document, o *owned) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	convertible.Apply(o.c)
	conversion.Emit(doc.For(o.el.Ordinal()), o.c)
	return nil
}
