package records

import (
	"context"
	"fmt"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/enactment"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/holding"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/predicate"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/procedure"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/rule"
)

// Decoder builds engine values from records. Names defined through one
// Decoder are visible to every later record it decodes.
type Decoder struct {
	source TextSource
	names  map[string]factor.Factor
}

// NewDecoder returns a Decoder resolving enactment text through source,
// which may be nil when every enactment record carries its content.
func NewDecoder(source TextSource) *Decoder {
	return &Decoder{source: source, names: make(map[string]factor.Factor)}
}

// Lookup returns the factor defined under name.
func (d *Decoder) Lookup(name string) (factor.Factor, bool) {
	f, ok := d.names[name]
	return f, ok
}

// Holdings decodes every holding of doc.
func (d *Decoder) Holdings(ctx context.Context, doc *Document) ([]*holding.Holding, error) {
	out := make([]*holding.Holding, 0, len(doc.Holdings))
	for i, r := range doc.Holdings {
		h, err := d.Holding(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("holding %d: %w", i, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// Holding decodes one holding record.
func (d *Decoder) Holding(ctx context.Context, r *HoldingRecord) (*holding.Holding, error) {
	ru, err := d.Rule(ctx, &r.RuleRecord)
	if err != nil {
		return nil, err
	}
	return holding.New(ru,
		holding.Decided(boolOr(r.Decided, true)),
		holding.RuleValid(boolOr(r.RuleValid, true)),
		holding.Exclusive(r.Exclusive))
}

// Rule decodes one rule record.
func (d *Decoder) Rule(ctx context.Context, r *RuleRecord) (*rule.Rule, error) {
	outputs, err := d.Factors(r.Outputs)
	if err != nil {
		return nil, fmt.Errorf("outputs: %w", err)
	}
	inputs, err := d.Factors(r.Inputs)
	if err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}
	despite, err := d.Factors(r.Despite)
	if err != nil {
		return nil, fmt.Errorf("despite: %w", err)
	}
	p, err := procedure.New(outputs, inputs, despite)
	if err != nil {
		return nil, err
	}
	enactments, err := d.Enactments(ctx, r.Enactments)
	if err != nil {
		return nil, err
	}
	enactmentsDespite, err := d.Enactments(ctx, r.EnactmentsDespite)
	if err != nil {
		return nil, err
	}
	return rule.New(p,
		rule.Mandatory(r.Mandatory),
		rule.Universal(r.Universal),
		rule.Enactments(enactments...),
		rule.EnactmentsDespite(enactmentsDespite...),
		rule.Named(r.Name))
}

// Enactments decodes a list of enactment records.
func (d *Decoder) Enactments(ctx context.Context, rs []*EnactmentRecord) ([]*enactment.Enactment, error) {
	out := make([]*enactment.Enactment, 0, len(rs))
	for _, r := range rs {
		e, err := d.Enactment(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Enactment decodes one enactment record, fetching its text if needed.
func (d *Decoder) Enactment(ctx context.Context, r *EnactmentRecord) (*enactment.Enactment, error) {
	heading, content := r.Heading, r.Content
	if content == "" {
		if d.source == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoText, r.Node)
		}
		h, c, err := d.source.ProvisionText(ctx, r.Node)
		if err != nil {
			return nil, fmt.Errorf("failed to load text of %s: %w", r.Node, err)
		}
		content = c
		if heading == "" {
			heading = h
		}
	}
	opts := []enactment.Option{enactment.Heading(heading)}
	if len(r.Selection) > 0 {
		opts = append(opts, enactment.Select(r.Selection...))
	}
	if len(r.Quotes) > 0 {
		opts = append(opts, enactment.SelectQuote(r.Quotes...))
	}
	return enactment.New(r.Node, content, opts...)
}

// Factors decodes a list of factor records in order.
func (d *Decoder) Factors(rs []*FactorRecord) ([]factor.Factor, error) {
	out := make([]factor.Factor, 0, len(rs))
	for _, r := range rs {
		f, err := d.Factor(r)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Factor decodes one factor record, resolving name references.
func (d *Decoder) Factor(r *FactorRecord) (factor.Factor, error) {
	if r == nil {
		return nil, nil
	}
	if r.IsReference() {
		f, ok := d.names[r.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownName, r.Name)
		}
		return f, nil
	}
	f, err := d.build(r)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", r.Type, r.Name, err)
	}
	if r.Name == "" {
		return f, nil
	}
	if prior, ok := d.names[r.Name]; ok {
		if prior.Key() != f.Key() {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
		}
		pe, priorEntity := prior.(*factor.Entity)
		fe, entity := f.(*factor.Entity)
		if priorEntity && entity && pe.IsPlural() != fe.IsPlural() {
			return nil, fmt.Errorf("%w: %q", factor.ErrConflictingPlurality, r.Name)
		}
		return prior, nil
	}
	d.names[r.Name] = f
	return f, nil
}

func (d *Decoder) build(r *FactorRecord) (factor.Factor, error) {
	opts := d.options(r)
	switch r.Type {
	case TypeEntity:
		if r.Name == "" {
			return nil, ErrUnnamedEntity
		}
		return factor.NewEntity(r.Name, opts...), nil
	case TypeFact:
		return d.fact(r, opts)
	case TypeExhibit:
		statement, err := slot[*factor.Fact](d, r.Statement, "statement")
		if err != nil {
			return nil, err
		}
		attribution, err := slot[*factor.Entity](d, r.StatementAttribution, "statement_attribution")
		if err != nil {
			return nil, err
		}
		return factor.NewExhibit(r.Form, statement, attribution, opts...)
	case TypeEvidence:
		exhibit, err := slot[*factor.Exhibit](d, r.Exhibit, "exhibit")
		if err != nil {
			return nil, err
		}
		toEffect, err := slot[*factor.Fact](d, r.ToEffect, "to_effect")
		if err != nil {
			return nil, err
		}
		return factor.NewEvidence(exhibit, toEffect, opts...)
	case TypePleading:
		filer, err := slot[*factor.Entity](d, r.Filer, "filer")
		if err != nil {
			return nil, err
		}
		return factor.NewPleading(filer, opts...)
	case TypeAllegation:
		pleading, err := slot[*factor.Pleading](d, r.Pleading, "pleading")
		if err != nil {
			return nil, err
		}
		fact, err := slot[*factor.Fact](d, r.Fact, "fact")
		if err != nil {
			return nil, err
		}
		return factor.NewAllegation(pleading, fact, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
}

func (d *Decoder) options(r *FactorRecord) []factor.Option {
	var opts []factor.Option
	if r.Generic != nil {
		if *r.Generic {
			opts = append(opts, factor.Generic())
		} else {
			opts = append(opts, factor.Specific())
		}
	}
	if r.Absent {
		opts = append(opts, factor.Absent())
	}
	if r.Plural {
		opts = append(opts, factor.Plural())
	}
	if r.Name != "" && r.Type != TypeEntity {
		opts = append(opts, factor.Named(r.Name))
	}
	if r.StandardOfProof != "" {
		opts = append(opts, factor.Standard(r.StandardOfProof))
	}
	return opts
}

func (d *Decoder) fact(r *FactorRecord, opts []factor.Option) (factor.Factor, error) {
	var popts []predicate.Option
	if r.Truth != nil {
		popts = append(popts, predicate.Truth(*r.Truth))
	}
	if r.IncludeNegatives {
		popts = append(popts, predicate.IncludeNegatives())
	}

	var (
		p   *predicate.Predicate
		err error
	)
	if r.Sign != "" {
		sign, serr := predicate.ParseSign(r.Sign)
		if serr != nil {
			return nil, serr
		}
		expr, eerr := predicate.ParseExpression(r.Expression)
		if eerr != nil {
			return nil, eerr
		}
		p, err = predicate.NewComparison(r.Content, sign, expr, popts...)
	} else {
		p, err = predicate.New(r.Content, popts...)
	}
	if err != nil {
		return nil, err
	}

	terms, err := d.Factors(r.Terms)
	if err != nil {
		return nil, err
	}
	return factor.NewFact(p, terms, opts...)
}

// slot decodes a nested record that must be of kind T. A missing record
// leaves the slot empty.
func slot[T factor.Factor](d *Decoder, r *FactorRecord, field string) (T, error) {
	var zero T
	if r == nil {
		return zero, nil
	}
	f, err := d.Factor(r)
	if err != nil {
		return zero, err
	}
	t, ok := f.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is a %s", ErrWrongKind, field, f.Kind())
	}
	return t, nil
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
