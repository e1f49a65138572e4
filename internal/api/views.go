package api

import (
	"github.com/mscarey/AuthoritySpoke-sub000/internal/contradiction"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/enactment"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/holding"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/rule"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/storage"
	"github.com/mscarey/AuthoritySpoke-sub000/pkg/models"
)

func factorView(f factor.Factor) models.Factor {
	return models.Factor{
		Kind:    f.Kind().String(),
		Name:    f.Name(),
		Text:    f.String(),
		Generic: f.IsGeneric(),
		Absent:  f.IsAbsent(),
	}
}

func factorViews(fs []factor.Factor) []models.Factor {
	out := make([]models.Factor, len(fs))
	for i, f := range fs {
		out[i] = factorView(f)
	}
	return out
}

func explanationView(e factor.Explanation) models.Explanation {
	bindings := e.Context().Bindings()
	context := make([]models.Binding, len(bindings))
	for i, b := range bindings {
		context[i] = models.Binding{Left: b.Left.Key(), Right: b.Right.Key()}
	}
	return models.Explanation{
		Relation: e.Relation().String(),
		Context:  context,
		Text:     e.String(),
	}
}

func enactmentViews(es []*enactment.Enactment) []models.Enactment {
	out := make([]models.Enactment, len(es))
	for i, e := range es {
		out[i] = models.Enactment{
			Node:         e.Node(),
			Heading:      e.Heading(),
			SelectedText: e.SelectedText(),
			Passages:     e.Passages(),
		}
	}
	return out
}

func ruleView(r *rule.Rule) models.Rule {
	return models.Rule{
		Name:              r.Name(),
		Mandatory:         r.Mandatory(),
		Universal:         r.Universal(),
		Outputs:           factorViews(r.Outputs()),
		Inputs:            factorViews(r.Inputs()),
		Despite:           factorViews(r.Despite()),
		Enactments:        enactmentViews(r.Enactments()),
		EnactmentsDespite: enactmentViews(r.EnactmentsDespite()),
	}
}

func holdingView(h *holding.Holding) models.Holding {
	return models.Holding{
		Text:      h.String(),
		Decided:   h.Decided(),
		RuleValid: h.RuleValid(),
		Exclusive: h.Exclusive(),
		Rule:      ruleView(h.Rule()),
	}
}

func provisionView(p *storage.Provision) models.Provision {
	return models.Provision{
		Node:      p.Node,
		Heading:   p.Heading,
		Content:   p.Content,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}
}

func findingView(f contradiction.Finding) models.Finding {
	explanations := make([]models.Explanation, len(f.Explanations))
	for i, e := range f.Explanations {
		explanations[i] = explanationView(e)
	}
	return models.Finding{
		Left:         f.Left.Index,
		Right:        f.Right.Index,
		Kind:         string(f.Kind),
		Severity:     string(f.Severity),
		Explanations: explanations,
	}
}
